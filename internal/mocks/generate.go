// Package mocks provides gomock implementations of the travel provider
// interfaces for tests that must observe or forbid provider calls.
//
// To regenerate after interface changes, run:
//
//	go generate ./internal/mocks
package mocks

//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=travel_mock.go github.com/kiranshivaraju/fieldplanner/internal/travel Geocoder,Router
