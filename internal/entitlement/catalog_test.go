package entitlement

import (
	"testing"

	"github.com/nexusvision/studio/pkg/models"
)

func TestCatalogRows(t *testing.T) {
	tests := []struct {
		id      models.PlanID
		price   int
		credits int
		name    string
	}{
		{models.PlanFree, 0, 5, "Livre"},
		{models.PlanStarter, 49, 75, "Iniciante"},
		{models.PlanPro, 129, 250, "Pró"},
		{models.PlanUltra, 299, 750, "Ultra"},
		{models.PlanStarterYearly, 499, 900, "Iniciante Anual"},
		{models.PlanProYearly, 1318, 3000, "Pró Anual"},
		{models.PlanUltraYearly, 3059, 9000, "Ultra Anual"},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			plan, ok := LookupPlan(tt.id)
			if !ok {
				t.Fatalf("LookupPlan(%s) not found", tt.id)
			}
			if plan.Price != tt.price {
				t.Errorf("Expected price %d, got %d", tt.price, plan.Price)
			}
			if plan.Credits != tt.credits {
				t.Errorf("Expected credits %d, got %d", tt.credits, plan.Credits)
			}
			if plan.Name != tt.name {
				t.Errorf("Expected name %s, got %s", tt.name, plan.Name)
			}
		})
	}
}

func TestLookupPlanUnknown(t *testing.T) {
	if _, ok := LookupPlan("mega"); ok {
		t.Error("Unknown plan should not resolve")
	}
}

func TestPlansOrder(t *testing.T) {
	plans := Plans()
	if len(plans) != 7 {
		t.Fatalf("Expected 7 plans, got %d", len(plans))
	}
	if plans[0].ID != models.PlanFree {
		t.Errorf("Expected free first, got %s", plans[0].ID)
	}
	if plans[6].ID != models.PlanUltraYearly {
		t.Errorf("Expected ultra_yearly last, got %s", plans[6].ID)
	}
}
