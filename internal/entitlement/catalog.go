package entitlement

import "github.com/nexusvision/studio/pkg/models"

// Plan is one row of the plan catalog.
type Plan struct {
	ID      models.PlanID `json:"id"`
	Price   int           `json:"price"`
	Credits int           `json:"credits"`
	Name    string        `json:"name"`
}

// catalog is frozen business data. Annual figures are hand-rounded literals,
// not derived from the monthly rows at call time.
var catalog = map[models.PlanID]Plan{
	models.PlanFree:    {ID: models.PlanFree, Price: 0, Credits: 5, Name: "Livre"},
	models.PlanStarter: {ID: models.PlanStarter, Price: 49, Credits: 75, Name: "Iniciante"},
	models.PlanPro:     {ID: models.PlanPro, Price: 129, Credits: 250, Name: "Pró"},
	models.PlanUltra:   {ID: models.PlanUltra, Price: 299, Credits: 750, Name: "Ultra"},

	models.PlanStarterYearly: {ID: models.PlanStarterYearly, Price: 499, Credits: 900, Name: "Iniciante Anual"},
	models.PlanProYearly:     {ID: models.PlanProYearly, Price: 1318, Credits: 3000, Name: "Pró Anual"},
	models.PlanUltraYearly:   {ID: models.PlanUltraYearly, Price: 3059, Credits: 9000, Name: "Ultra Anual"},
}

// planOrder fixes the display order of catalog listings.
var planOrder = []models.PlanID{
	models.PlanFree,
	models.PlanStarter,
	models.PlanPro,
	models.PlanUltra,
	models.PlanStarterYearly,
	models.PlanProYearly,
	models.PlanUltraYearly,
}

// LookupPlan returns the catalog row for a plan ID.
func LookupPlan(id models.PlanID) (Plan, bool) {
	plan, ok := catalog[id]
	return plan, ok
}

// Plans returns all catalog rows in display order.
func Plans() []Plan {
	plans := make([]Plan, 0, len(planOrder))
	for _, id := range planOrder {
		plans = append(plans, catalog[id])
	}
	return plans
}
