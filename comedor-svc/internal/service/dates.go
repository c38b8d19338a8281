package service

import "time"

// DateService funnels every day-boundary and deadline computation through one
// place so the calendar rules of the comedor (business days, Lima timezone)
// stay uniform.
type DateService struct {
	loc *time.Location
}

func NewDateService() *DateService {
	loc, err := time.LoadLocation("America/Lima")
	if err != nil {
		// Lima has no DST; a fixed offset is equivalent.
		loc = time.FixedZone("-05", -5*60*60)
	}
	return &DateService{loc: loc}
}

// ToUTCDate normalizes an instant to the stored UTC representation of its
// Lima calendar day. UTC midnight of day D falls on D-1 19:00 in Lima, so the
// stored instant is UTC midnight of D+1: read back in Lima it still displays
// as calendar day D.
func (s *DateService) ToUTCDate(date time.Time) time.Time {
	d := date.In(s.loc)
	return time.Date(d.Year(), d.Month(), d.Day()+1, 0, 0, 0, 0, time.UTC)
}

// SetYesterday returns the previous business day at 00:00:00 Lima time,
// skipping back over weekends to Friday.
func (s *DateService) SetYesterday(date time.Time) time.Time {
	d := date.In(s.loc)
	prev := time.Date(d.Year(), d.Month(), d.Day()-1, 0, 0, 0, 0, s.loc)
	switch prev.Weekday() {
	case time.Sunday:
		prev = prev.AddDate(0, 0, -2)
	case time.Saturday:
		prev = prev.AddDate(0, 0, -1)
	}
	return prev
}

// SetTomorrow returns the next business day at 23:59:59 Lima time, skipping
// forward over weekends to Monday.
func (s *DateService) SetTomorrow(date time.Time) time.Time {
	d := date.In(s.loc)
	next := time.Date(d.Year(), d.Month(), d.Day()+1, 23, 59, 59, 0, s.loc)
	switch next.Weekday() {
	case time.Saturday:
		next = next.AddDate(0, 0, 2)
	case time.Sunday:
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (s *DateService) GetStartOfDay(date time.Time) time.Time {
	return s.ToUTCDate(date)
}

func (s *DateService) GetEndOfDay(date time.Time) time.Time {
	return s.ToUTCDate(date).Add(23*time.Hour + 59*time.Minute + 59*time.Second + 999*time.Millisecond)
}

// CalculateOrderDeadline returns 23:59:59.999 Lima time of the calendar day
// before the menu date.
func (s *DateService) CalculateOrderDeadline(menuDate time.Time) time.Time {
	base := s.ToUTCDate(menuDate)
	y, m, d := base.Date() // base carries the menu's calendar day + 1
	return time.Date(y, m, d-2, 23, 59, 59, int(999*time.Millisecond), s.loc).UTC()
}

// FromTimestamp converts a stored nullable timestamp, defaulting to now.
func (s *DateService) FromTimestamp(t *time.Time) time.Time {
	if t == nil || t.IsZero() {
		return time.Now()
	}
	return *t
}

func (s *DateService) IsBeforeDeadline(date, deadline time.Time) bool {
	return !date.After(deadline)
}

// Location exposes the business timezone for display formatting.
func (s *DateService) Location() *time.Location {
	return s.loc
}
