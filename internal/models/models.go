package models

// ChatMessage is a single turn in any of the three chat transcripts a
// customer record carries. BroadcastID is set only on agent turns that
// were delivered through a broadcast.
type ChatMessage struct {
	Role        string `json:"role"`
	Content     string `json:"content"`
	Timestamp   string `json:"timestamp,omitempty"`
	BroadcastID string `json:"broadcastId,omitempty"`
}

// Todo is an agent-side action item attached to a customer.
type Todo struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Priority  string `json:"priority,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Done      bool   `json:"done"`
	Deadline  string `json:"deadline,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// Interaction is a logged touchpoint (call, mail, meeting) with a customer.
type Interaction struct {
	ID        string `json:"id"`
	Date      string `json:"date,omitempty"`
	Method    string `json:"method,omitempty"`
	Content   string `json:"content,omitempty"`
	CreatedAt string `json:"createdAt"`
}

type ChecklistItem struct {
	Title      string `json:"title"`
	Detail     string `json:"detail"`
	Ref        string `json:"ref"`
	Checked    bool   `json:"checked"`
	Customized string `json:"customized"`
}

type ChecklistPhase struct {
	Name  string          `json:"name"`
	Items []ChecklistItem `json:"items"`
}

// Customer is the full record stored per registration token.
// Profile values are kept as free-form strings the way the intake form
// submits them; empty string and the sentinels in IsFilled mean "not given".
type Customer struct {
	Token        string `json:"token"`
	PasswordHash string `json:"passwordHash,omitempty"`

	Name       string `json:"name,omitempty"`
	BirthYear  string `json:"birthYear,omitempty"`
	BirthMonth string `json:"birthMonth,omitempty"`
	Age        int    `json:"age,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Line       string `json:"line,omitempty"`

	Prefecture      string `json:"prefecture,omitempty"`
	Family          string `json:"family,omitempty"`
	HouseholdIncome string `json:"householdIncome,omitempty"`
	PropertyType    string `json:"propertyType,omitempty"`
	Purpose         string `json:"purpose,omitempty"`
	SearchReason    string `json:"searchReason,omitempty"`
	Area            string `json:"area,omitempty"`
	Budget          string `json:"budget,omitempty"`
	FreeComment     string `json:"freeComment,omitempty"`

	CurrentHome         string `json:"currentHome,omitempty"`
	Reason              string `json:"reason,omitempty"`
	Size                string `json:"size,omitempty"`
	Layout              string `json:"layout,omitempty"`
	StationDistance     string `json:"stationDistance,omitempty"`
	Occupation          string `json:"occupation,omitempty"`
	Income              string `json:"income,omitempty"`
	Savings             string `json:"savings,omitempty"`
	LoanStatus          string `json:"loanStatus,omitempty"`
	Motivation          string `json:"motivation,omitempty"`
	Timeline            string `json:"timeline,omitempty"`
	Referral            string `json:"referral,omitempty"`
	SpouseOccupation    string `json:"spouseOccupation,omitempty"`
	SpouseIncome        string `json:"spouseIncome,omitempty"`
	CurrentRent         string `json:"currentRent,omitempty"`
	Pet                 string `json:"pet,omitempty"`
	Parking             string `json:"parking,omitempty"`
	SpecialRequirements string `json:"specialRequirements,omitempty"`
	Memo                string `json:"memo,omitempty"`

	Status      string `json:"status,omitempty"`
	Stage       int    `json:"stage,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	BlockedAt   string `json:"blockedAt,omitempty"`
	WithdrawnAt string `json:"withdrawnAt,omitempty"`

	Tags []string `json:"tags"`

	ChatHistory       []ChatMessage `json:"chatHistory"`
	DirectChatHistory []ChatMessage `json:"directChatHistory"`
	AgentChatHistory  []ChatMessage `json:"agentChatHistory,omitempty"`

	Interactions []Interaction    `json:"interactions,omitempty"`
	Todos        []Todo           `json:"todos,omitempty"`
	Checklist    []ChecklistPhase `json:"checklist,omitempty"`
}

// EffectiveStatus treats a record without an explicit status as active.
func (c *Customer) EffectiveStatus() string {
	if c.Status == "" {
		return StatusActive
	}
	return c.Status
}

// EffectiveStage treats a record without an explicit stage as stage 1.
func (c *Customer) EffectiveStage() int {
	if c.Stage < StageMin {
		return StageMin
	}
	return c.Stage
}

// HasTag reports whether the customer carries the named tag.
func (c *Customer) HasTag(name string) bool {
	for _, t := range c.Tags {
		if t == name {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can read a record without holding
// the store lock.
func (c *Customer) Clone() *Customer {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Tags = append([]string(nil), c.Tags...)
	cp.ChatHistory = append([]ChatMessage(nil), c.ChatHistory...)
	cp.DirectChatHistory = append([]ChatMessage(nil), c.DirectChatHistory...)
	cp.AgentChatHistory = append([]ChatMessage(nil), c.AgentChatHistory...)
	cp.Interactions = append([]Interaction(nil), c.Interactions...)
	cp.Todos = append([]Todo(nil), c.Todos...)
	if c.Checklist != nil {
		cp.Checklist = make([]ChecklistPhase, len(c.Checklist))
		for i, phase := range c.Checklist {
			cp.Checklist[i] = ChecklistPhase{
				Name:  phase.Name,
				Items: append([]ChecklistItem(nil), phase.Items...),
			}
		}
	}
	return &cp
}

// Tag is an entry in the shared tag catalog. Names are unique.
type Tag struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	Category string `json:"category"`
}

// Broadcast records one segment delivery. Entries are append-only.
type Broadcast struct {
	ID              string   `json:"id"`
	SentAt          string   `json:"sentAt"`
	Message         string   `json:"message"`
	FilterType      string   `json:"filterType"`
	FilterTags      []string `json:"filterTags"`
	RecipientCount  int      `json:"recipientCount"`
	RecipientTokens []string `json:"recipientTokens"`
}

// Settings holds operator state that survives restarts.
type Settings struct {
	AdminPassword string `json:"adminPassword,omitempty"`
}
