package payment

import (
	"fmt"
	"strings"

	"github.com/nexusvision/studio/pkg/models"
)

// EncodeReference packs a user and plan into a gateway external reference.
func EncodeReference(userID string, planID models.PlanID) string {
	return fmt.Sprintf("%s:%s", userID, planID)
}

// DecodeReference unpacks an external reference back into its user and plan.
func DecodeReference(ref string) (string, models.PlanID, error) {
	idx := strings.LastIndex(ref, ":")
	if idx <= 0 || idx == len(ref)-1 {
		return "", "", fmt.Errorf("malformed external reference %q", ref)
	}

	userID := ref[:idx]
	planID := models.PlanID(ref[idx+1:])
	if !planID.Valid() {
		return "", "", fmt.Errorf("external reference %q names unknown plan", ref)
	}

	return userID, planID, nil
}
