package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/profitshare/internal/domain"
	"github.com/iho/profitshare/internal/usecase"
	"github.com/iho/profitshare/internal/usecase/mocks"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func fixtureHolders() []*domain.Holder {
	return []*domain.Holder{
		{ID: "A", Name: "Alice", Active: true},
		{ID: "B", Name: "Bob", Active: true},
	}
}

// deficitPeriods: A overdraws in January and repays in February.
func deficitPeriods() []*domain.Period {
	split := []domain.ShareEntry{
		{HolderID: "A", Shares: dec("1")},
		{HolderID: "B", Shares: dec("1")},
	}
	return []*domain.Period{
		{
			ID:      "p-1",
			Key:     domain.NewYearMonth(2024, time.January),
			Inputs:  domain.PeriodInputs{NetIncome: dec("1000")},
			Shares:  split,
			Charges: []domain.PersonalCharge{{HolderID: "A", Amount: dec("2000")}},
			Version: 1,
		},
		{
			ID:      "p-2",
			Key:     domain.NewYearMonth(2024, time.February),
			Inputs:  domain.PeriodInputs{NetIncome: dec("10000")},
			Shares:  split,
			Version: 1,
		},
		{
			ID:      "p-3",
			Key:     domain.NewYearMonth(2024, time.March),
			Inputs:  domain.PeriodInputs{NetIncome: dec("300")},
			Shares:  split,
			Version: 1,
		},
	}
}

type fixture struct {
	periods *mocks.PeriodStore
	holders *mocks.HolderStore
	calcUC  *usecase.CalculationUseCase
	period  *usecase.PeriodUseCase
}

func newFixture(periods ...*domain.Period) *fixture {
	f := &fixture{
		periods: mocks.NewPeriodStore(periods...),
		holders: mocks.NewHolderStore(fixtureHolders()...),
	}
	f.calcUC = usecase.NewCalculationUseCase(usecase.CalculationUseCaseConfig{
		PeriodRepo: f.periods,
		Cache:      mocks.NewMemoryCache(),
	})
	f.period = usecase.NewPeriodUseCase(usecase.PeriodUseCaseConfig{
		TxManager:   mocks.NewFakeTxManager(),
		PeriodRepo:  f.periods,
		HolderRepo:  f.holders,
		IDGen:       mocks.NewSequenceIDGenerator("period"),
		Invalidator: f.calcUC,
	})
	return f
}
