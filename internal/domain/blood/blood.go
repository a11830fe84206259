// Package blood holds the ABO/Rh blood type vocabulary shared by the
// donor, inventory, and emergency domains.
package blood

// Types lists the eight ABO/Rh blood types.
var Types = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

var typeSet = func() map[string]bool {
	m := make(map[string]bool, len(Types))
	for _, t := range Types {
		m[t] = true
	}
	return m
}()

// Valid reports whether s is a recognized blood type.
func Valid(s string) bool {
	return typeSet[s]
}
