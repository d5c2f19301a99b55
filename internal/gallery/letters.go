package gallery

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bigkaa/pngshots/internal/domain/model"
)

// CategoryGroup — категория и её записи.
type CategoryGroup struct {
	Name    string
	Records []model.ImageRecord
}

// LetterSection — раздел алфавитного указателя.
type LetterSection struct {
	// Letter — первая буква категорий раздела в верхнем регистре
	Letter string
	// Groups — категории раздела в алфавитном порядке
	Groups []CategoryGroup
}

// GroupByFirstLetter раскладывает категории по разделам алфавитного указателя.
// Категории сортируются без учёта регистра (при равенстве — по точной строке)
// и группируются по первой букве в верхнем регистре. Разделы идут в порядке
// первого появления буквы в отсортированном списке.
func GroupByFirstLetter(groups map[string][]model.ImageRecord) []LetterSection {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	slices.SortFunc(names, compareCategory)

	sections := make([]LetterSection, 0)
	index := make(map[string]int)
	for _, name := range names {
		letter := firstLetter(name)
		i, ok := index[letter]
		if !ok {
			i = len(sections)
			index[letter] = i
			sections = append(sections, LetterSection{Letter: letter})
		}
		sections[i].Groups = append(sections[i].Groups, CategoryGroup{Name: name, Records: groups[name]})
	}
	return sections
}

// compareCategory сравнивает имена категорий без учёта регистра.
func compareCategory(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// firstLetter возвращает первую букву имени в верхнем регистре ("#" для пустого).
func firstLetter(name string) string {
	r, _ := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return "#"
	}
	return string(unicode.ToUpper(r))
}
