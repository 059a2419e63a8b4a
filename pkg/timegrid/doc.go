// Package timegrid holds the date x half-hour availability grid shared by the
// admin blocking grid and the mentor/applicant selection grid.
package timegrid
