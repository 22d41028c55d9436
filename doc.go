// Package main provides the entry point for the membership management application.
// It initializes and runs a web server using the Fiber framework that lets
// regional and university staff manage members, small groups, events,
// attendance and contributions through a JSON API. The application uses gorm
// for data persistence and filters every data operation by the authenticated
// user's organizational scope (row-level security).
package main
