// Package trip defines the travel planning domain model: the preference
// draft collected by the wizard, the follow-up question type, and the
// generated itinerary with its day plans and activities.
//
// Activities carry a stable ID assigned at generation time. Slot positions
// (day, period, index) are the public addressing scheme for callers, but
// every mutation resolves the position to the stable ID first so that
// concurrent deletions cannot redirect a slower write to the wrong slot.
package trip
