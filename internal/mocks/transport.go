package mocks

import (
	"context"
	"net"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/catalog-bot/internal/model"
)

// Transport is a mock type for the Transport type
type Transport struct {
	mock.Mock
}

func (_m *Transport) Execute(ctx context.Context, action model.Action) (model.MessageRef, error) {
	ret := _m.Called(ctx, action)
	return ret.Get(0).(model.MessageRef), ret.Error(1)
}

// NewTransport creates a new instance of Transport. It also registers a cleanup function to assert the mocks expectations.
func NewTransport(t interface {
	mock.TestingT
	Cleanup(func())
}) *Transport {
	m := &Transport{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Broadcaster is a mock type for the Broadcaster type
type Broadcaster struct {
	mock.Mock
}

func (_m *Broadcaster) Broadcast(ctx context.Context, req model.BroadcastRequest) error {
	ret := _m.Called(ctx, req)
	return ret.Error(0)
}

// NewBroadcaster creates a new instance of Broadcaster. It also registers a cleanup function to assert the mocks expectations.
func NewBroadcaster(t interface {
	mock.TestingT
	Cleanup(func())
}) *Broadcaster {
	m := &Broadcaster{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// SecurityLayer is a mock type for the SecurityLayer type
type SecurityLayer struct {
	mock.Mock
}

func (_m *SecurityLayer) Listen(protocol string, addr string) (net.Listener, error) {
	ret := _m.Called(protocol, addr)
	var ln net.Listener
	if v := ret.Get(0); v != nil {
		ln = v.(net.Listener)
	}
	return ln, ret.Error(1)
}

// NewSecurityLayer creates a new instance of SecurityLayer. It also registers a cleanup function to assert the mocks expectations.
func NewSecurityLayer(t interface {
	mock.TestingT
	Cleanup(func())
}) *SecurityLayer {
	m := &SecurityLayer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
