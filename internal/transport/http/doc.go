// Package http implements the HTTP handlers of the dashboard server: the
// JSON API under /api/dashboard, dataset and health endpoints, and the
// server-rendered page at /.
//
// Handlers are thin. They parse the selection from the query string or a
// JSON body, call the dashboard service, and write either JSON through
// go-chi/render or an RFC 7807 problem through the shared ErrorHandler.
//
// # Selections
//
// The year, term and department query parameters may repeat. A parameter
// that is absent selects every value on its axis; a parameter present only
// with blank values selects none:
//
//	/api/dashboard                         everything
//	/api/dashboard?year=2023&year=2024     two years, all terms and departments
//	/api/dashboard?department=             no departments
package http
