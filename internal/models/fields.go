package models

// The intake form, the admin console, and the chat extractor all address
// profile fields by their JSON key. Field and SetField are the single
// mapping between those keys and the struct; unknown keys are rejected so
// callers stay allow-listed.

// CustomerEditableFields are the keys a customer may change through the
// self-service profile endpoint.
var CustomerEditableFields = []string{
	"name", "birthYear", "birthMonth", "prefecture", "family",
	"householdIncome", "propertyType", "purpose", "searchReason", "area",
	"budget", "freeComment", "email", "phone", "line",
}

// AdminEditableFields are the keys the console may change. Stage and age
// are numeric and handled separately by the service.
var AdminEditableFields = []string{
	"name", "birthYear", "birthMonth", "prefecture", "family",
	"householdIncome", "currentHome", "reason", "searchReason", "area",
	"budget", "freeComment", "propertyType", "purpose", "size", "layout",
	"stationDistance", "occupation", "income", "savings", "loanStatus",
	"motivation", "timeline", "email", "phone", "line", "referral",
	"spouseOccupation", "spouseIncome", "currentRent", "pet", "parking",
	"specialRequirements", "memo",
}

// ExtractableFields are the keys the chat extractor may propose values for.
var ExtractableFields = []string{
	"age", "family", "currentHome", "reason", "area", "budget",
	"propertyType", "size", "layout", "stationDistance", "occupation",
	"income", "savings", "loanStatus", "motivation", "timeline",
	"spouseOccupation", "spouseIncome", "currentRent", "pet", "parking",
	"specialRequirements",
}

// Field returns the string value for a profile key.
func Field(c *Customer, key string) (string, bool) {
	switch key {
	case "name":
		return c.Name, true
	case "birthYear":
		return c.BirthYear, true
	case "birthMonth":
		return c.BirthMonth, true
	case "email":
		return c.Email, true
	case "phone":
		return c.Phone, true
	case "line":
		return c.Line, true
	case "prefecture":
		return c.Prefecture, true
	case "family":
		return c.Family, true
	case "householdIncome":
		return c.HouseholdIncome, true
	case "propertyType":
		return c.PropertyType, true
	case "purpose":
		return c.Purpose, true
	case "searchReason":
		return c.SearchReason, true
	case "area":
		return c.Area, true
	case "budget":
		return c.Budget, true
	case "freeComment":
		return c.FreeComment, true
	case "currentHome":
		return c.CurrentHome, true
	case "reason":
		return c.Reason, true
	case "size":
		return c.Size, true
	case "layout":
		return c.Layout, true
	case "stationDistance":
		return c.StationDistance, true
	case "occupation":
		return c.Occupation, true
	case "income":
		return c.Income, true
	case "savings":
		return c.Savings, true
	case "loanStatus":
		return c.LoanStatus, true
	case "motivation":
		return c.Motivation, true
	case "timeline":
		return c.Timeline, true
	case "referral":
		return c.Referral, true
	case "spouseOccupation":
		return c.SpouseOccupation, true
	case "spouseIncome":
		return c.SpouseIncome, true
	case "currentRent":
		return c.CurrentRent, true
	case "pet":
		return c.Pet, true
	case "parking":
		return c.Parking, true
	case "specialRequirements":
		return c.SpecialRequirements, true
	case "memo":
		return c.Memo, true
	}
	return "", false
}

// SetField writes a string value for a profile key. Returns false for
// unknown keys.
func SetField(c *Customer, key, value string) bool {
	switch key {
	case "name":
		c.Name = value
	case "birthYear":
		c.BirthYear = value
	case "birthMonth":
		c.BirthMonth = value
	case "email":
		c.Email = value
	case "phone":
		c.Phone = value
	case "line":
		c.Line = value
	case "prefecture":
		c.Prefecture = value
	case "family":
		c.Family = value
	case "householdIncome":
		c.HouseholdIncome = value
	case "propertyType":
		c.PropertyType = value
	case "purpose":
		c.Purpose = value
	case "searchReason":
		c.SearchReason = value
	case "area":
		c.Area = value
	case "budget":
		c.Budget = value
	case "freeComment":
		c.FreeComment = value
	case "currentHome":
		c.CurrentHome = value
	case "reason":
		c.Reason = value
	case "size":
		c.Size = value
	case "layout":
		c.Layout = value
	case "stationDistance":
		c.StationDistance = value
	case "occupation":
		c.Occupation = value
	case "income":
		c.Income = value
	case "savings":
		c.Savings = value
	case "loanStatus":
		c.LoanStatus = value
	case "motivation":
		c.Motivation = value
	case "timeline":
		c.Timeline = value
	case "referral":
		c.Referral = value
	case "spouseOccupation":
		c.SpouseOccupation = value
	case "spouseIncome":
		c.SpouseIncome = value
	case "currentRent":
		c.CurrentRent = value
	case "pet":
		c.Pet = value
	case "parking":
		c.Parking = value
	case "specialRequirements":
		c.SpecialRequirements = value
	case "memo":
		c.Memo = value
	default:
		return false
	}
	return true
}
