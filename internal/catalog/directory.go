package catalog

import "math/rand"

// Consultant is a single sales agent in the branch pool.
type Consultant struct {
	Name  string
	Phone string
}

// Directory resolves a consultant for lead routing. Implementations must be
// safe for concurrent use.
type Directory interface {
	Assign() (Consultant, bool)
}

// branchPools is the static consultant roster, keyed province → town → branch.
var branchPools = map[string]map[string]map[string][]Consultant{
	"Lusaka Province": {
		"Lusaka": {
			"Cairo Road Branch": {
				{Name: "Chanda Mutale", Phone: "260971100001"},
				{Name: "Bwalya Mwape", Phone: "260971100002"},
				{Name: "Namukolo Phiri", Phone: "260971100003"},
			},
			"Kalingalinga Branch": {
				{Name: "Mwamba Banda", Phone: "260971100004"},
				{Name: "Lweendo Siame", Phone: "260971100005"},
			},
			"Woodlands Branch": {
				{Name: "Kapambwe Zulu", Phone: "260971100006"},
				{Name: "Thandiwe Moyo", Phone: "260971100007"},
			},
		},
		"Kafue": {
			"Kafue Branch": {
				{Name: "Mulenga Kasonde", Phone: "260971100008"},
				{Name: "Chiluba Tembo", Phone: "260971100009"},
			},
		},
	},
	"Copperbelt Province": {
		"Kitwe": {
			"Kitwe Central Branch": {
				{Name: "Kelvin Musonda", Phone: "260971200001"},
				{Name: "Brenda Chiti", Phone: "260971200002"},
				{Name: "Musa Kabwe", Phone: "260971200003"},
			},
			"Nkana East Branch": {
				{Name: "Alice Mwenda", Phone: "260971200004"},
				{Name: "Felix Chisanga", Phone: "260971200005"},
			},
		},
		"Ndola": {
			"Ndola Main Branch": {
				{Name: "Sharon Kabunda", Phone: "260971200006"},
				{Name: "Patrick Zulu", Phone: "260971200007"},
			},
		},
	},
	"Southern Province": {
		"Livingstone": {
			"Livingstone Branch": {
				{Name: "Precious Sikaonga", Phone: "260971300001"},
				{Name: "Victor Hamusimbi", Phone: "260971300002"},
			},
		},
		"Choma": {
			"Choma Branch": {
				{Name: "Rosemary Mwanza", Phone: "260971300003"},
				{Name: "Bernard Mudenda", Phone: "260971300004"},
			},
		},
	},
	"Eastern Province": {
		"Chipata": {
			"Chipata Main Branch": {
				{Name: "Isaac Banda", Phone: "260971400001"},
				{Name: "Mary Phiri", Phone: "260971400002"},
				{Name: "Henry Tembo", Phone: "260971400003"},
			},
		},
	},
}

// Provinces lists the provinces with at least one branch.
func Provinces() []string {
	names := make([]string, 0, len(branchPools))
	for province := range branchPools {
		names = append(names, province)
	}
	return names
}

// Towns lists the towns within a province.
func Towns(province string) []string {
	towns := make([]string, 0, len(branchPools[province]))
	for town := range branchPools[province] {
		towns = append(towns, town)
	}
	return towns
}

// Branches lists the branches within a town.
func Branches(province, town string) []string {
	branches := make([]string, 0, len(branchPools[province][town]))
	for branch := range branchPools[province][town] {
		branches = append(branches, branch)
	}
	return branches
}

// RandomConsultant picks one consultant from the branch pool.
func RandomConsultant(province, town, branch string) (Consultant, bool) {
	pool := branchPools[province][town][branch]
	if len(pool) == 0 {
		return Consultant{}, false
	}
	return pool[rand.Intn(len(pool))], true
}

// StaticDirectory assigns consultants by walking the roster hierarchy with
// a random pick at each level. Used for lead routing when no smarter
// assignment service is wired in.
type StaticDirectory struct{}

// Assign picks a random province, town and branch, then a consultant from
// that branch pool.
func (StaticDirectory) Assign() (Consultant, bool) {
	province, ok := pickRandom(Provinces())
	if !ok {
		return Consultant{}, false
	}
	town, ok := pickRandom(Towns(province))
	if !ok {
		return Consultant{}, false
	}
	branch, ok := pickRandom(Branches(province, town))
	if !ok {
		return Consultant{}, false
	}
	return RandomConsultant(province, town, branch)
}

func pickRandom(options []string) (string, bool) {
	if len(options) == 0 {
		return "", false
	}
	return options[rand.Intn(len(options))], true
}
