// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package simmock

import (
	"github.com/golang/mock/gomock"

	"github.com/luxfi/dasim"
)

//go:generate mockgen -package=simmock -destination=observer.go -mock_names=Observer=MockObserver github.com/luxfi/dasim Observer
//go:generate mockgen -package=simmock -destination=sampler.go -mock_names=Sampler=MockSampler github.com/luxfi/dasim Sampler

var (
	_ dasim.Observer = (*MockObserver)(nil)
	_ dasim.Sampler  = (*MockSampler)(nil)
)

// NewObserver returns a mock observer expecting exactly blocks calls
func NewObserver(ctrl *gomock.Controller, blocks int) *MockObserver {
	observer := NewMockObserver(ctrl)
	observer.EXPECT().Observe(gomock.Any()).Times(blocks)
	return observer
}
