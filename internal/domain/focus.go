package domain

type FocusArea string

const (
	FocusCareer        FocusArea = "career"
	FocusRelationships FocusArea = "relationships"
	FocusWealth        FocusArea = "wealth"
	FocusHealth        FocusArea = "health"
	FocusTravel        FocusArea = "travel"
	FocusEducation     FocusArea = "education"
	FocusPurpose       FocusArea = "purpose"
)

// AllFocusAreas lists the selectable areas in display order.
var AllFocusAreas = []FocusArea{
	FocusCareer,
	FocusRelationships,
	FocusWealth,
	FocusHealth,
	FocusTravel,
	FocusEducation,
	FocusPurpose,
}

func (f FocusArea) IsValid() bool {
	switch f {
	case FocusCareer, FocusRelationships, FocusWealth, FocusHealth,
		FocusTravel, FocusEducation, FocusPurpose:
		return true
	}
	return false
}

func (f FocusArea) Display() string {
	switch f {
	case FocusCareer:
		return "Career"
	case FocusRelationships:
		return "Relationships"
	case FocusWealth:
		return "Wealth"
	case FocusHealth:
		return "Health"
	case FocusTravel:
		return "Travel"
	case FocusEducation:
		return "Education"
	case FocusPurpose:
		return "Purpose"
	}
	return string(f)
}

// Hint is the per-area steering text used only for prompt construction.
func (f FocusArea) Hint() string {
	switch f {
	case FocusCareer:
		return "Focus on career path, leadership, timing of opportunities, and work relationships."
	case FocusRelationships:
		return "Focus on relationships, communication patterns, compatibility, and emotional well-being."
	case FocusWealth:
		return "Focus on finances, risk, long-term planning, and money habits."
	case FocusHealth:
		return "Focus on wellness routines, stress patterns, and sustainable health habits."
	case FocusTravel:
		return "Focus on journeys, relocation, favorable directions, and timing of travel."
	case FocusEducation:
		return "Focus on learning, study discipline, examinations, and skill growth."
	case FocusPurpose:
		return "Focus on life direction, vocation, meaning, and long-term fulfillment."
	}
	return ""
}
