package status_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/farmer/internal/app/status"
	"github.com/slok/farmer/internal/log"
	"github.com/slok/farmer/internal/model"
)

type mockReader struct {
	mock.Mock
}

func (m *mockReader) FarmSnapshot(ctx context.Context) (model.FarmSnapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.FarmSnapshot), args.Error(1)
}

func (m *mockReader) CardInventory(ctx context.Context) (model.CardInventory, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.CardInventory), args.Error(1)
}

func TestNewService(t *testing.T) {
	tests := map[string]struct {
		config status.ServiceConfig
		expErr bool
	}{
		"valid config should create service": {
			config: status.ServiceConfig{
				NewReader: func(model.Account) (status.StateReader, error) { return &mockReader{}, nil },
				Logger:    log.Noop,
			},
			expErr: false,
		},
		"missing reader factory should fail": {
			config: status.ServiceConfig{
				Logger: log.Noop,
			},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)

			svc, err := status.NewService(test.config)

			if test.expErr {
				require.Error(err)
				require.Nil(svc)
			} else {
				require.NoError(err)
				require.NotNil(svc)
			}
		})
	}
}

func TestService_Run(t *testing.T) {
	alice := model.Account{ID: "alice", Name: "Alice", Cookie: "a"}
	snapshot := model.FarmSnapshot{Progress: model.FarmProgress{TotalEnergy: 120, TreeEnergy: 10, TreeTotalEnergy: 100}}
	cards := model.CardInventory{DoubleCard: 2}

	tests := map[string]struct {
		mock       func(m *mockReader)
		factoryErr error
		req        status.Request
		expResult  []model.AccountStatus
		expErr     bool
	}{
		"get the status of an account": {
			mock: func(m *mockReader) {
				m.On("FarmSnapshot", mock.Anything).Once().Return(snapshot, nil)
				m.On("CardInventory", mock.Anything).Once().Return(cards, nil)
			},
			req: status.Request{Accounts: []model.Account{alice}},
			expResult: []model.AccountStatus{
				{AccountID: "alice", AccountName: "Alice", Snapshot: &snapshot, Cards: &cards},
			},
		},
		"card inventory failure should still return the farm": {
			mock: func(m *mockReader) {
				m.On("FarmSnapshot", mock.Anything).Once().Return(snapshot, nil)
				m.On("CardInventory", mock.Anything).Once().Return(model.CardInventory{}, fmt.Errorf("rejected"))
			},
			req: status.Request{Accounts: []model.Account{alice}},
			expResult: []model.AccountStatus{
				{AccountID: "alice", AccountName: "Alice", Snapshot: &snapshot},
			},
		},
		"farm snapshot failure should be reported on the account": {
			mock: func(m *mockReader) {
				m.On("FarmSnapshot", mock.Anything).Once().Return(model.FarmSnapshot{}, fmt.Errorf("not logged in"))
			},
			req: status.Request{Accounts: []model.Account{alice}},
			expResult: []model.AccountStatus{
				{AccountID: "alice", AccountName: "Alice", Error: "not logged in"},
			},
		},
		"reader creation failure should be reported on the account": {
			mock:       func(m *mockReader) {},
			factoryErr: fmt.Errorf("missing cookie"),
			req:        status.Request{Accounts: []model.Account{alice}},
			expResult: []model.AccountStatus{
				{AccountID: "alice", AccountName: "Alice", Error: "could not create reader: missing cookie"},
			},
		},
		"no accounts should fail": {
			mock:   func(m *mockReader) {},
			req:    status.Request{},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			// Setup
			m := &mockReader{}
			test.mock(m)

			svc, err := status.NewService(status.ServiceConfig{
				NewReader: func(model.Account) (status.StateReader, error) {
					if test.factoryErr != nil {
						return nil, test.factoryErr
					}
					return m, nil
				},
				Logger: log.Noop,
			})
			require.NoError(err)

			// Execute
			result, err := svc.Run(context.Background(), test.req)

			// Verify
			if test.expErr {
				assert.Error(err)
			} else {
				assert.NoError(err)
				assert.Equal(test.expResult, result)
			}

			m.AssertExpectations(t)
		})
	}
}
