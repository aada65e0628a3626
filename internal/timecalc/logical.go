package timecalc

import "time"

// LogicalDateKey returns the bookkeeping day an instant belongs to. Instants
// whose local hour is before rolloverHour count toward the previous calendar
// day. rolloverHour must already be validated to 0..23.
func (c *Calendar) LogicalDateKey(instant time.Time, rolloverHour int) string {
	local := c.ToReferenceZone(instant)
	if local.Hour() < rolloverHour {
		// Step back on the civil date, not 24h, so DST days are not skipped.
		y, m, d := local.Date()
		local = time.Date(y, m, d-1, 12, 0, 0, 0, c.loc)
	}
	return FormatDateKey(local)
}
