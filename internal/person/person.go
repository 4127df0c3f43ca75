// Package person implements the create and list operations for Person records
// stored as (:Person) nodes in the graph database.
package person

// Person is one stored record. The (name, age) pair is its only identity.
type Person struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// Age bounds for generated persons, inclusive.
const (
	MinAge = 18
	MaxAge = 80
)

// Names is the closed list create draws from.
var Names = []string{
	"Alice", "Bob", "Charlie", "Diana", "Edward", "Fiona", "George", "Hannah",
	"Isaac", "Julia", "Kevin", "Laura", "Michael", "Nina", "Oscar", "Penny",
	"Quinn", "Rachel", "Samuel", "Tina", "Ulysses", "Victoria", "William", "Xara",
	"Yasmin", "Zachary",
}

// IsKnownName reports whether name is in Names.
func IsKnownName(name string) bool {
	for _, n := range Names {
		if n == name {
			return true
		}
	}
	return false
}

// Cypher used by the service. Values are always bound as parameters.
const (
	createQuery = "CREATE (p:Person {name: $name, age: $age}) RETURN p.name AS name, p.age AS age"
	listQuery   = "MATCH (p:Person) RETURN p.name AS name, p.age AS age"
)
