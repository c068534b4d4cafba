package attendance

// DeriveFields recomputes session hours, total hours and the re-check-in
// status for r. It does not touch storage and every mutator runs it before
// persisting.
func DeriveFields(r Record) Record {
	r.FirstSessionHours = nil
	if r.CheckIn != nil && r.CheckOut != nil {
		h := HoursBetween(r.CheckIn.Time, r.CheckOut.Time)
		r.FirstSessionHours = &h
	}

	r.SecondSessionHours = nil
	if r.ReCheckIn != nil && r.ReCheckOut != nil {
		h := HoursBetween(r.ReCheckIn.Time, r.ReCheckOut.Time)
		r.SecondSessionHours = &h
	}

	r.TotalHours = hoursOrZero(r.FirstSessionHours) + hoursOrZero(r.SecondSessionHours)

	if r.ReCheckIn != nil {
		r.Status = StatusReCheckedIn
		r.CheckInCount = 2
	} else if r.CheckIn != nil && r.CheckInCount == 0 {
		r.CheckInCount = 1
	}

	if r.Status == "" {
		r.Status = StatusPresent
	}

	return r
}

func hoursOrZero(h *float64) float64 {
	if h == nil {
		return 0
	}
	return *h
}
