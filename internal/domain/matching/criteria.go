package matching

import (
	"strings"

	"jobmatch/internal/domain/job"
)

const (
	fullCredit         = 1.0
	noCredit           = 0.0
	neutralCredit      = 0.5
	similarFieldCredit = 0.6
	sameProvinceCredit = 0.7
	cheapSalaryCredit  = 0.8
	dearSalaryCredit   = 0.3
)

// Keywords are matched by substring containment, so "مهندسی کامپیوتر" hits the first group.
var synonymGroups = [][]string{
	{"کامپیوتر", "نرم‌افزار", "برنامه‌نویسی", "it", "فناوری اطلاعات", "computer", "software", "programming", "information technology"},
	{"برق", "الکترونیک", "کنترل", "مخابرات", "electrical", "electronics", "control", "telecom"},
	{"مکانیک", "صنایع", "تولید", "mechanical", "industrial", "manufacturing"},
	{"مدیریت", "بازرگانی", "اقتصاد", "حسابداری", "management", "business", "economics", "accounting"},
	{"روانشناسی", "مشاوره", "اجتماعی", "psychology", "counseling", "social"},
}

func FieldOfStudyScore(candidateField, postingField string) float64 {
	a := strings.ToLower(strings.TrimSpace(candidateField))
	b := strings.ToLower(strings.TrimSpace(postingField))
	if a == "" || b == "" {
		return noCredit
	}
	if a == b {
		return fullCredit
	}
	if similarFields(a, b) {
		return similarFieldCredit
	}
	return noCredit
}

func similarFields(a, b string) bool {
	for _, group := range synonymGroups {
		if containsAny(a, group) && containsAny(b, group) {
			return true
		}
	}
	return false
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func JobTypeScore(candidateType, postingType job.JobType) float64 {
	if candidateType == postingType {
		return fullCredit
	}
	return noCredit
}

func WorkTypeScore(candidateType, postingType job.WorkType) float64 {
	if candidateType == postingType {
		return fullCredit
	}
	return noCredit
}

// SkillsScore is the share of required skill tokens that overlap, by substring in either
// direction, with at least one candidate token.
func SkillsScore(candidateSkills, requiredSkills string) float64 {
	if strings.TrimSpace(candidateSkills) == "" || strings.TrimSpace(requiredSkills) == "" {
		return noCredit
	}

	have := SplitSkills(candidateSkills)
	want := SplitSkills(requiredSkills)
	if len(want) == 0 {
		return fullCredit
	}

	matched := 0
	for _, w := range want {
		for _, h := range have {
			if strings.Contains(h, w) || strings.Contains(w, h) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(want))
}

// SplitSkills splits a comma separated skill list into trimmed lowercase tokens.
func SplitSkills(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// LocationScore gives remote postings full credit whatever the geography.
func LocationScore(postingWorkType job.WorkType, candidateCity, candidateProvince, postingCity, postingProvince string) float64 {
	if postingWorkType == job.WorkTypeRemote {
		return fullCredit
	}

	cc := strings.ToLower(strings.TrimSpace(candidateCity))
	pc := strings.ToLower(strings.TrimSpace(postingCity))
	if cc == "" || pc == "" {
		return neutralCredit
	}
	if cc == pc {
		return fullCredit
	}

	cp := strings.ToLower(strings.TrimSpace(candidateProvince))
	pp := strings.ToLower(strings.TrimSpace(postingProvince))
	if cp != "" && pp != "" && cp == pp {
		return sameProvinceCredit
	}
	return noCredit
}

// SalaryScore treats a non-positive amount the same as a missing one.
func SalaryScore(expected, minSalary, maxSalary *int) float64 {
	if !present(expected) || !present(minSalary) {
		return neutralCredit
	}

	want := *expected
	lo := *minSalary
	hi := lo * 2
	if present(maxSalary) {
		hi = *maxSalary
	}

	switch {
	case want < lo:
		return cheapSalaryCredit
	case want > hi:
		return dearSalaryCredit
	default:
		return fullCredit
	}
}

func present(v *int) bool {
	return v != nil && *v > 0
}
