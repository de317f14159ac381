package hosts

import (
	"context"
	"strings"

	"pethost/internal/app/uow"
	domainhosts "pethost/internal/domain/hosts"
	domainpricing "pethost/internal/domain/pricing"
	"pethost/internal/domain/shared/money"
)

const defaultCurrency = "USD"

type AddressInput struct {
	Line1   string  `validate:"max=200"`
	City    string  `validate:"required,max=120"`
	Country string  `validate:"max=120"`
	Lat     float64 `validate:"gte=-90,lte=90"`
	Lon     float64 `validate:"gte=-180,lte=180"`
}

// ProfileInput is the editable part of a host profile.
type ProfileInput struct {
	Title           string `validate:"required,max=140"`
	Description     string `validate:"max=4000"`
	Address         AddressInput
	MaxPets         int                `validate:"min=1,max=50"`
	DailyRateCents  int64              `validate:"gte=0"`
	Currency        string             `validate:"omitempty,len=3"`
	SizeMultipliers map[string]float64 `validate:"dive,keys,oneof=small medium large giant,endkeys,gte=0"`
	WeeklyDiscount  float64            `validate:"gte=0,lte=1"`
	MonthlyDiscount float64            `validate:"gte=0,lte=1"`
}

func (p ProfileInput) toDomain(fallbackCurrency string) domainhosts.Profile {
	currency := strings.ToUpper(strings.TrimSpace(p.Currency))
	if currency == "" {
		currency = fallbackCurrency
	}
	if currency == "" {
		currency = defaultCurrency
	}
	var multipliers map[domainpricing.PetSize]float64
	if len(p.SizeMultipliers) > 0 {
		multipliers = make(map[domainpricing.PetSize]float64, len(p.SizeMultipliers))
		for size, m := range p.SizeMultipliers {
			multipliers[domainpricing.NormalizeSize(size)] = m
		}
	}
	return domainhosts.Profile{
		Title:       p.Title,
		Description: p.Description,
		Address: domainhosts.Address{
			Line1:   strings.TrimSpace(p.Address.Line1),
			City:    strings.TrimSpace(p.Address.City),
			Country: strings.TrimSpace(p.Address.Country),
			Lat:     p.Address.Lat,
			Lon:     p.Address.Lon,
		},
		MaxPets: p.MaxPets,
		Pricing: domainpricing.Policy{
			BaseDailyRate:   money.Money{Amount: p.DailyRateCents, Currency: currency},
			SizeMultipliers: multipliers,
			Discounts: domainpricing.DurationDiscounts{
				Weekly:  p.WeeklyDiscount,
				Monthly: p.MonthlyDiscount,
			},
		},
	}
}

// loadOwnedHost fetches a host the actor is allowed to edit.
func loadOwnedHost(ctx context.Context, unit uow.UnitOfWork, hostID, actorID string) (*domainhosts.Host, error) {
	host, err := unit.Hosts().ByID(ctx, domainhosts.HostID(strings.TrimSpace(hostID)))
	if err != nil {
		return nil, err
	}
	if !host.OwnedBy(actorID) {
		return nil, domainhosts.ErrNotOwner
	}
	return host, nil
}
