package core

import "campuscore/pkg/domain"

// NewDefaultRulesEngine builds a rules engine with the built-in policy set.
func NewDefaultRulesEngine() *RulesEngine {
	engine := domain.NewRulesEngine()
	engine.Register(NewFeeConsistencyRule())
	engine.Register(NewDanglingReferenceRule())
	return engine
}
