// Package timezone pins every timestamp the service produces to one application timezone.
//
//	now := timezone.Now()
//	day := timezone.StartOfDay(now)
//	formatted := timezone.Format(now, constant.DateFormat)
//
// The timezone comes from APP_TIMEZONE and is loaded when the package is imported.
// Use standard IANA names ("UTC", "Asia/Jakarta", "Europe/London").
package timezone
