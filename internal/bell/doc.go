// Package bell runs the daily bell loop: it polls a clock, rings a sound
// output for every scheduled minute it observes, and remembers what has
// already rung so each entry sounds at most once per calendar day.
//
// Matching is minute-granular. With a poll interval longer than a minute the
// loop can sample either side of a scheduled minute and skip it; there is no
// catch-up. The default interval of 20s samples every minute at least twice.
package bell
