package ledger

import "math/rand"

func simulatedPatch(today string, days int, rng *rand.Rand) Patch {
	patch := Patch{Days: make([]DayRecord, 0, days)}
	for i := 0; i < days; i++ {
		date := AddDays(today, -i)
		if rng.Float64() > 0.4 {
			passes := rng.Intn(16)
			// a day nobody passed by has no approaches either
			approaches := 0
			if passes > 0 {
				approaches = rng.Intn(5) + 1
			}
			patch.Days = append(patch.Days, DayRecord{
				Date:       date,
				Passes:     intPtr(passes),
				Approaches: intPtr(approaches),
				Focus:      boolPtr(false),
				Approached: approaches > 0,
			})
			patch.Stats.TotalPassedBy += passes
			patch.Stats.TotalApproaches += approaches
			continue
		}

		patch.Days = append(patch.Days, DayRecord{
			Date:       date,
			Passes:     intPtr(0),
			Approaches: intPtr(0),
			Focus:      boolPtr(rng.Float64() > 0.7),
		})
	}
	return patch
}
