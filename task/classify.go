package task

import "strings"

type keywordMapping struct {
	keywords []string
	category Category
}

// Mappings are checked in order; the first keyword found wins.
var keywordMappings = []keywordMapping{
	{
		keywords: []string{"fuel", "petrol", "gas", "diesel", "gasoline", "fill up", "refuel"},
		category: CategoryFuelDelivery,
	},
	{
		keywords: []string{"queue", "wait", "line", "standing", "waiting", "stand in line", "wait in queue"},
		category: CategoryQueueStanding,
	},
	{
		keywords: []string{"pickup", "pick up", "deliver", "drop", "courier", "package", "parcel", "collect", "send"},
		category: CategoryPickupDelivery,
	},
}

// Classify detects the category of a free-text task description by substring
// match. Descriptions matching no keyword are general tasks.
func Classify(description string) Category {
	lower := strings.ToLower(description)
	for _, mapping := range keywordMappings {
		for _, keyword := range mapping.keywords {
			if strings.Contains(lower, keyword) {
				return mapping.category
			}
		}
	}
	return CategoryGeneralTask
}
