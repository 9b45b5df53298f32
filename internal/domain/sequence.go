package domain

import "fmt"

// RunSequence calculates periods oldest first, feeding each period's
// carry-forward-out into the next period's carry-forward-in.
//
// Periods are not sorted; callers that cannot guarantee order should run
// CheckChronological first. Each step receives its own copy of the carry state.
func RunSequence(periods []PeriodRecord) []PeriodResult {
	results := make([]PeriodResult, 0, len(periods))
	carry := CarryForward{}
	for _, p := range periods {
		res := Calculate(CalculationInput{
			Key:            p.Key,
			Inputs:         p.Inputs,
			Shares:         p.Shares,
			Charges:        p.Charges,
			CarryForwardIn: carry.Clone(),
		})
		results = append(results, res)
		carry = res.CarryForwardOut()
	}
	return results
}

// CarryForwardBefore replays periods strictly before key and returns the
// carry state entering key.
func CarryForwardBefore(periods []PeriodRecord, key YearMonth) CarryForward {
	var prior []PeriodRecord
	for _, p := range periods {
		if p.Key.Before(key) {
			prior = append(prior, p)
		}
	}
	results := RunSequence(prior)
	if len(results) == 0 {
		return CarryForward{}
	}
	return results[len(results)-1].CarryForwardOut()
}

// CheckChronological verifies periods are in non-decreasing key order.
func CheckChronological(periods []PeriodRecord) error {
	for i := 1; i < len(periods); i++ {
		if periods[i].Key.Before(periods[i-1].Key) {
			return fmt.Errorf("%w: %s after %s", ErrPeriodsOutOfOrder, periods[i].Key, periods[i-1].Key)
		}
	}
	return nil
}
