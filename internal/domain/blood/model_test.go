package blood

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBloodType(t *testing.T) {
	cases := []struct {
		in   string
		want BloodType
		ok   bool
	}{
		{"A+", APos, true},
		{"ab-", ABNeg, true},
		{"O ", OPos, true}, // "+" decodificado como espacio
		{"AB ", ABPos, true},
		{"A+ ", APos, true},
		{"C+", "C+", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := ParseBloodType(c.in)
		assert.Equal(t, c.ok, ok, "ParseBloodType(%q)", c.in)
		if c.ok {
			assert.Equal(t, c.want, got, "ParseBloodType(%q)", c.in)
		}
	}
}

func TestCompatibilityTable(t *testing.T) {
	assert.Len(t, DonorsFor(ABPos), 8)
	assert.Equal(t, []BloodType{ONeg}, DonorsFor(ONeg))
	assert.ElementsMatch(t, []BloodType{ANeg, BNeg, ABNeg, ONeg}, DonorsFor(ABNeg))

	// O- dona a todos; AB+ sólo a AB+.
	for _, r := range AllTypes {
		assert.True(t, CanDonate(ONeg, r), "O- -> %s", r)
		assert.Equal(t, r == ABPos, CanDonate(ABPos, r), "AB+ -> %s", r)
	}

	// DonorsFor devuelve copia.
	d := DonorsFor(APos)
	d[0] = "X"
	assert.Equal(t, APos, DonorsFor(APos)[0])
}
