package seeder

// Defaults seeds a small demo world: two companies with postings, four candidates with one
// active request each, and an admin. Order matters because of the foreign keys.
func Defaults() []Seeder {
	return []Seeder{
		AccountsSeeder{},
		JobPostingsSeeder{},
		CandidateRequestsSeeder{},
	}
}
