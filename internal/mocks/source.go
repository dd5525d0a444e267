// Package mocks holds hand-written testify/mock doubles in the same
// shape mockery would generate for them (the teacher repository imports
// a generated "mocks" package it doesn't ship alongside its source).
package mocks

import (
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/mpetrenko/cellsheet/cellvalue"
	"github.com/mpetrenko/cellsheet/position"
)

// Source mocks cell.Source.
type Source struct {
	mock.Mock
}

// NewSource builds a Source mock and registers a Cleanup hook asserting
// every expectation set on it was met, mirroring mockery's generated
// constructors.
func NewSource(t *testing.T) *Source {
	m := &Source{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Source) Value(p position.Position) cellvalue.CellValue {
	args := m.Called(p)
	v, _ := args.Get(0).(cellvalue.CellValue)
	return v
}
