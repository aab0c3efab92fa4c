package valueobject

import (
	"strings"

	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
)

type SkillCategory string

const (
	SkillCategoryProgramming SkillCategory = "programming"
	SkillCategoryDesign      SkillCategory = "design"
	SkillCategoryLanguages   SkillCategory = "languages"
	SkillCategoryMusic       SkillCategory = "music"
	SkillCategoryCooking     SkillCategory = "cooking"
	SkillCategoryAcademic    SkillCategory = "academic"
	SkillCategoryBusiness    SkillCategory = "business"
	SkillCategoryCrafts      SkillCategory = "crafts"
	SkillCategorySports      SkillCategory = "sports"
	SkillCategoryOther       SkillCategory = "other"
)

var skillCategories = map[SkillCategory]struct{}{
	SkillCategoryProgramming: {},
	SkillCategoryDesign:      {},
	SkillCategoryLanguages:   {},
	SkillCategoryMusic:       {},
	SkillCategoryCooking:     {},
	SkillCategoryAcademic:    {},
	SkillCategoryBusiness:    {},
	SkillCategoryCrafts:      {},
	SkillCategorySports:      {},
	SkillCategoryOther:       {},
}

func NewSkillCategory(value string) (SkillCategory, error) {
	c := SkillCategory(strings.ToLower(strings.TrimSpace(value)))
	if c == "" {
		return SkillCategoryOther, nil
	}
	if _, ok := skillCategories[c]; !ok {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректная категория навыка")
	}
	return c, nil
}

type Proficiency string

const (
	ProficiencyBeginner     Proficiency = "Beginner"
	ProficiencyIntermediate Proficiency = "Intermediate"
	ProficiencyExpert       Proficiency = "Expert"
)

func NewProficiency(value string) (Proficiency, error) {
	p := Proficiency(value)
	switch p {
	case ProficiencyBeginner, ProficiencyIntermediate, ProficiencyExpert:
		return p, nil
	case "":
		return ProficiencyBeginner, nil
	}
	return "", apperror.New(apperror.ErrCodeValidation, "некорректный уровень владения навыком")
}
