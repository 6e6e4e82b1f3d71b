// Package calendar renders extracted events as an iCalendar (RFC 5545) feed
// that calendar applications can import or subscribe to.
package calendar
