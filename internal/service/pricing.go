package service

import (
	"fmt"
	"sort"

	"neurogrid-backend/internal/model"
	"neurogrid-backend/internal/service/serverrors"
)

const (
	PackageStarter      = "starter"
	PackageProfessional = "professional"
	PackageEnterprise   = "enterprise"

	consultationItemID   = "consultation"
	consultationItemName = "AI Consultation Session"
	consultationPrice    = 150.0
)

type packageInfo struct {
	Name     string
	Price    float64
	Features []string
}

// neuralPackages is the only source of prices; clients never send amounts.
var neuralPackages = map[string]packageInfo{
	PackageStarter: {
		Name:  "Neural Starter Package",
		Price: 99.0,
		Features: []string{
			"Basic AI Automation Course",
			"5 Neural Network Templates",
			"Community Access",
			"Email Support",
		},
	},
	PackageProfessional: {
		Name:  "Neural Professional Package",
		Price: 299.0,
		Features: []string{
			"Complete AI Automation Suite",
			"20+ Neural Network Templates",
			"1-on-1 Mentorship (2 sessions)",
			"Priority Support",
			"Advanced Workshops",
		},
	},
	PackageEnterprise: {
		Name:  "Neural Enterprise Package",
		Price: 599.0,
		Features: []string{
			"Full Neural Labs Access",
			"Unlimited Templates & Resources",
			"Weekly 1-on-1 Mentorship",
			"Custom AI Development",
			"24/7 Priority Support",
			"Enterprise Integration",
		},
	},
}

type priceQuote struct {
	ItemID   string
	ItemName string
	Amount   float64
}

// quote resolves the authoritative price for a checkout request.
func quote(paymentType model.PaymentType, itemReference string) (*priceQuote, error) {
	switch paymentType {
	case model.PaymentTypeConsultation:
		itemID := itemReference
		if itemID == "" {
			itemID = consultationItemID
		}
		return &priceQuote{ItemID: itemID, ItemName: consultationItemName, Amount: consultationPrice}, nil
	case model.PaymentTypeCourse:
		info, ok := neuralPackages[itemReference]
		if !ok {
			return nil, fmt.Errorf("package %q: %w", itemReference, serverrors.ErrInvalidItem)
		}
		return &priceQuote{ItemID: itemReference, ItemName: info.Name, Amount: info.Price}, nil
	default:
		return nil, fmt.Errorf("payment type %q: %w", paymentType, serverrors.ErrInvalidPaymentType)
	}
}

func packageIDs() []string {
	ids := make([]string, 0, len(neuralPackages))
	for id := range neuralPackages {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return neuralPackages[ids[i]].Price < neuralPackages[ids[j]].Price
	})
	return ids
}
