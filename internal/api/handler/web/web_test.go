package web

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viastore/viastore/internal/service"
)

func TestSafeNext(t *testing.T) {
	tests := []struct {
		next string
		want string
	}{
		{"", "/"},
		{"/items", "/items"},
		{"/items?page=2", "/items?page=2"},
		{"/items/3/edit", "/items/3/edit"},
		{"items", "/"},
		{"//evil.example", "/"},
		{`/\evil.example`, "/"},
		{`/\/evil.example`, "/"},
		{"https://evil.example/", "/"},
		{"/%0d%0aLocation:%20x", "/%0d%0aLocation:%20x"},
		{"/\tevil", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.next, func(t *testing.T) {
			assert.Equal(t, tt.want, safeNext(tt.next))
		})
	}
}

func TestNotFound(t *testing.T) {
	tests := []struct {
		err   error
		field string
		ok    bool
	}{
		{fmt.Errorf("s.repo.AddQuantity -> %w", service.ErrItemNotFound), "item", true},
		{fmt.Errorf("s.repo.GetWarehouse -> %w", service.ErrWarehouseNotFound), "warehouse", true},
		{fmt.Errorf("s.repo.GetOrder -> %w", service.ErrOrderNotFound), "form", true},
		{service.ErrNoWarehouseAvailable, "", false},
	}

	for _, tt := range tests {
		field, msg, ok := notFound(tt.err)
		assert.Equal(t, tt.ok, ok, tt.err.Error())
		assert.Equal(t, tt.field, field)
		if ok {
			assert.NotEmpty(t, msg)
		}
	}
}
