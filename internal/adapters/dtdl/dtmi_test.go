package dtdl

import (
	"strings"
	"testing"
)

func TestValidDTMI(t *testing.T) {
	cases := []struct {
		dtmi string
		want bool
	}{
		{"dtmi:com:example:Thermostat;1", true},
		{"dtmi:com:example:Thermostat;1.2", true},
		{"dtmi:com:example:Thermostat", true},
		{"dtmi:a", true},
		{"not-a-dtmi", false},
		{"dtmi:com:example:Thermostat;", false},
		{"dtmi:com:example:Thermostat;0", false},
		{"dtmi:com::example", false},
		{"", false},
	}
	for _, c := range cases {
		if got := ValidDTMI(c.dtmi); got != c.want {
			t.Errorf("ValidDTMI(%q) = %v, want %v", c.dtmi, got, c.want)
		}
	}
}

func TestValidDTMILength(t *testing.T) {
	short := "dtmi:a;1"
	longInterface := "dtmi:" + strings.Repeat("a", MaxInterfaceDTMILength) + ";1"
	longGeneral := "dtmi:" + strings.Repeat("a", MaxDTMILength)

	if !ValidDTMILength(short, true) {
		t.Errorf("expected short DTMI to respect interface length cap")
	}
	if ValidDTMILength(longInterface, true) {
		t.Errorf("expected interface DTMI over %d chars to fail the interface cap", MaxInterfaceDTMILength)
	}
	if !ValidDTMILength(longInterface, false) {
		t.Errorf("expected the same DTMI to respect the looser general cap")
	}
	if ValidDTMILength(longGeneral, false) {
		t.Errorf("expected DTMI over %d chars to fail the general cap", MaxDTMILength)
	}
}

func TestValidContentName(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"temperature", true},
		{"temperature_1", true},
		{"a", true},
		{"ab", true},
		{"_leading", false},
		{"1leading", false},
		{"has space", false},
		{"", false},
	}
	for _, c := range cases {
		if got := ValidContentName(c.name); got != c.want {
			t.Errorf("ValidContentName(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}
