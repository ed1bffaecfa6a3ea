package annotation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func duplicateKeyErr() error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}}}
}

func TestRetryOnDuplicate(t *testing.T) {
	tests := []struct {
		name    string
		results []error
		calls   int
		wantErr bool
	}{
		{name: "first try succeeds", results: []error{nil}, calls: 1},
		{name: "concurrent insert then update", results: []error{duplicateKeyErr(), nil}, calls: 2},
		{name: "other error not retried", results: []error{errors.New("network down")}, calls: 1, wantErr: true},
		{name: "retry fails", results: []error{duplicateKeyErr(), errors.New("network down")}, calls: 2, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := retryOnDuplicate(func() error {
				err := tt.results[calls]
				calls++
				return err
			})
			assert.Equal(t, tt.calls, calls)
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}
