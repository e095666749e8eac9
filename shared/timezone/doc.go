// Package timezone pins every wall-clock value the service reads or writes to one location.
//
// Booking windows travel without a zone ("2024-05-01T10:00:00"), so they are parsed and formatted
// in the application location:
//
//	start, err := timezone.Parse(constant.DateTimeFormat, "2024-05-01T10:00:00")
//	wire := timezone.Format(booking.Start, constant.DateTimeFormat)
//
// The location comes from APP_TIMEZONE when the package loads and falls back to UTC when the name is
// empty or unknown. Tests switch it with SetLocation.
package timezone
