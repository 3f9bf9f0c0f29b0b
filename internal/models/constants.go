package models

// Customer lifecycle statuses.
const (
	StatusActive    = "active"
	StatusBlocked   = "blocked"
	StatusWithdrawn = "withdrawn"
)

// Journey stages. Customers start at 1, move forward only.
const (
	StageMin = 1
	StageMax = 3
)

// Segment filter modes.
const (
	FilterAll        = "all"
	FilterIncludeAll = "include-all"
	FilterIncludeAny = "include-any"
	FilterExcludeAll = "exclude-all"
	FilterExcludeAny = "exclude-any"
)

// Todo priorities as the console displays them.
const (
	PriorityHigh   = "高"
	PriorityMedium = "中"
	PriorityLow    = "低"
)

// Auto-tag presentation for the two fields tagged at registration.
const (
	TagCategoryPrefecture   = "都道府県"
	TagCategoryPropertyType = "物件種別"
	TagColorPrefecture      = "#5856d6"
	TagColorPropertyType    = "#0071e3"
	TagColorDefault         = "#0071e3"
)

// Placeholder values the intake form produces for untouched fields.
const (
	SentinelDash  = "-"
	SentinelBlank = "未入力"
)

// MinPasswordLength applies to customer passwords; the admin console
// secret only requires MinAdminPasswordLength.
const (
	MinPasswordLength      = 6
	MinAdminPasswordLength = 4
)

// IsFilled reports whether a profile value counts toward completeness.
func IsFilled(v string) bool {
	return v != "" && v != SentinelDash && v != SentinelBlank
}

// ProfileFields are the ten fields the stage heuristic scores.
var ProfileFields = []string{
	"name", "birthYear", "prefecture", "family", "householdIncome",
	"propertyType", "area", "budget", "email", "phone",
}

// ProfileCompleteness counts filled fields among ProfileFields.
func ProfileCompleteness(c *Customer) (filled, total int) {
	total = len(ProfileFields)
	for _, f := range ProfileFields {
		if v, ok := Field(c, f); ok && IsFilled(v) {
			filled++
		}
	}
	return filled, total
}

// CompleteEnoughForStage2 applies the 70% rule: ceil(10 * 0.7) = 7 fields.
func CompleteEnoughForStage2(c *Customer) bool {
	filled, total := ProfileCompleteness(c)
	return filled >= (total*7+9)/10
}
