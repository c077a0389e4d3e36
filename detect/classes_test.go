package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartName(t *testing.T) {
	tests := []struct {
		name string
		id   int
		want string
		ok   bool
	}{
		{"first part", 0, "Bonnet", true},
		{"last part", 6, "Windshield", true},
		{"negative", -1, "", false},
		{"past end", 7, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PartName(tt.id)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestCountByClass(t *testing.T) {
	dets := []Detection{
		{ClassID: 0}, {ClassID: 3}, {ClassID: 0}, {ClassID: 5},
	}
	assert.Equal(t, map[int]int{0: 2, 3: 1, 5: 1}, CountByClass(dets))
	assert.Empty(t, CountByClass(nil))
}

func TestCatalogSizes(t *testing.T) {
	assert.Len(t, DamageParts, 7)
	assert.Len(t, COCOClasses, 80)
}
