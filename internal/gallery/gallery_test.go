package gallery

import (
	"reflect"
	"slices"
	"testing"

	"github.com/bigkaa/pngshots/internal/domain/model"
)

// rec создаёт запись-файл с указанными app и тегами.
func rec(id, app string, tags ...string) model.ImageRecord {
	r := model.ImageRecord{FileID: id, Name: id + ".png", Type: model.TypeFile, Tags: tags}
	if app != "" {
		r.CustomMetadata = map[string]any{"app": app}
	}
	return r
}

// ids возвращает идентификаторы записей по порядку.
func ids(records []model.ImageRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.FileID)
	}
	return out
}

// TestScenario_WeatherNotes проверяет эталонный сценарий агрегации.
func TestScenario_WeatherNotes(t *testing.T) {
	rec1 := rec("rec1", "Weather", "dark-mode")
	rec2 := rec("rec2", "Weather")
	rec3 := rec("rec3", "Notes", "dark-mode", "icons")
	records := []model.ImageRecord{rec1, rec2, rec3}

	groups := GroupByCategory(records)
	if len(groups) != 2 {
		t.Fatalf("групп = %d, ожидалось 2", len(groups))
	}
	if got := ids(groups["Weather"]); !reflect.DeepEqual(got, []string{"rec1", "rec2"}) {
		t.Errorf("Weather = %v, ожидалось [rec1 rec2]", got)
	}
	if got := ids(groups["Notes"]); !reflect.DeepEqual(got, []string{"rec3"}) {
		t.Errorf("Notes = %v, ожидалось [rec3]", got)
	}

	if got := DistinctTags(records); !reflect.DeepEqual(got, []string{"dark-mode", "icons"}) {
		t.Errorf("DistinctTags = %v, ожидалось [dark-mode icons]", got)
	}

	if got := ids(FilterByTags(records, []string{"icons"})); !reflect.DeepEqual(got, []string{"rec3"}) {
		t.Errorf("FilterByTags(icons) = %v, ожидалось [rec3]", got)
	}
}

// TestCategory проверяет единое правило категоризации.
func TestCategory(t *testing.T) {
	tests := []struct {
		name string
		meta map[string]any
		want string
	}{
		{"нет metadata", nil, Uncategorized},
		{"нет app", map[string]any{"title": "x"}, Uncategorized},
		{"пустой app", map[string]any{"app": ""}, Uncategorized},
		{"пробелы", map[string]any{"app": "   "}, Uncategorized},
		{"не строка", map[string]any{"app": 42}, Uncategorized},
		{"обычный", map[string]any{"app": "Weather"}, "Weather"},
		{"с пробелами", map[string]any{"app": "  Notes "}, "Notes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := model.ImageRecord{Type: model.TypeFile, CustomMetadata: tt.meta}
			if got := Category(r); got != tt.want {
				t.Errorf("Category() = %q, ожидалось %q", got, tt.want)
			}
		})
	}
}

// TestGroupByCategory_Partition проверяет, что каждая запись попадает
// ровно в одну группу и объединение групп равно входу.
func TestGroupByCategory_Partition(t *testing.T) {
	records := []model.ImageRecord{
		rec("a", "Weather"), rec("b", ""), rec("c", "Notes"),
		rec("d", "Weather"), rec("e", " "), rec("f", "notes"),
	}

	groups := GroupByCategory(records)

	total := 0
	seen := make(map[string]int)
	for cat, grp := range groups {
		total += len(grp)
		for _, r := range grp {
			seen[r.FileID]++
			if Category(r) != cat {
				t.Errorf("%s в группе %q, категория %q", r.FileID, cat, Category(r))
			}
		}
	}
	if total != len(records) {
		t.Errorf("всего в группах %d, ожидалось %d", total, len(records))
	}
	for _, r := range records {
		if seen[r.FileID] != 1 {
			t.Errorf("%s встречается %d раз", r.FileID, seen[r.FileID])
		}
	}
	if got := ids(groups[Uncategorized]); !reflect.DeepEqual(got, []string{"b", "e"}) {
		t.Errorf("Uncategorized = %v, ожидалось [b e]", got)
	}
}

// TestGroupByCategory_Idempotent проверяет повторяемость группировки.
func TestGroupByCategory_Idempotent(t *testing.T) {
	records := []model.ImageRecord{rec("a", "X"), rec("b", "Y"), rec("c", "X")}
	if !reflect.DeepEqual(GroupByCategory(records), GroupByCategory(records)) {
		t.Error("повторная группировка дала другой результат")
	}
}

// TestEmptyInput проверяет поведение на пустом входе.
func TestEmptyInput(t *testing.T) {
	if got := GroupByCategory(nil); len(got) != 0 {
		t.Errorf("GroupByCategory(nil) = %v", got)
	}
	if got := DistinctTags(nil); len(got) != 0 {
		t.Errorf("DistinctTags(nil) = %v", got)
	}
	if got := FilterByTags(nil, []string{"x"}); len(got) != 0 {
		t.Errorf("FilterByTags(nil) = %v", got)
	}
	if got := GroupByFirstLetter(nil); len(got) != 0 {
		t.Errorf("GroupByFirstLetter(nil) = %v", got)
	}
	if got := CategoryNames(nil); len(got) != 0 {
		t.Errorf("CategoryNames(nil) = %v", got)
	}
}

// TestFilterByTags_Identity проверяет, что пустой выбор — тождество.
func TestFilterByTags_Identity(t *testing.T) {
	records := []model.ImageRecord{rec("a", "X", "t1"), rec("b", "Y"), rec("c", "X", "t2")}

	for _, sel := range [][]string{nil, {}} {
		got := FilterByTags(records, sel)
		if !reflect.DeepEqual(got, records) {
			t.Errorf("FilterByTags(%v) = %v, ожидался вход без изменений", sel, ids(got))
		}
	}
}

// TestFilterByTags_SubsetOR проверяет OR-семантику и подмножество входа.
func TestFilterByTags_SubsetOR(t *testing.T) {
	records := []model.ImageRecord{
		rec("a", "X", "dark", "ios"),
		rec("b", "X", "light"),
		rec("c", "Y", "ios"),
		rec("d", "Y"),
	}

	got := FilterByTags(records, []string{"dark", "light"})
	if !reflect.DeepEqual(ids(got), []string{"a", "b"}) {
		t.Errorf("FilterByTags(dark|light) = %v, ожидалось [a b]", ids(got))
	}

	sel := []string{"ios"}
	for _, r := range FilterByTags(records, sel) {
		if !slices.Contains(ids(records), r.FileID) {
			t.Errorf("%s отсутствует во входе", r.FileID)
		}
		if !r.HasTag("ios") {
			t.Errorf("%s не пересекается с выбором", r.FileID)
		}
	}
	for _, r := range records {
		in := slices.Contains(ids(FilterByTags(records, sel)), r.FileID)
		if in != r.HasTag("ios") {
			t.Errorf("%s: включение = %v, пересечение = %v", r.FileID, in, r.HasTag("ios"))
		}
	}
}

// TestDistinctTags_FixedPoint проверяет идемпотентность DistinctTags.
func TestDistinctTags_FixedPoint(t *testing.T) {
	records := []model.ImageRecord{
		rec("a", "X", "b", "a", "a"),
		rec("b", "X", " c ", ""),
		rec("c", "X"),
	}

	first := DistinctTags(records)
	singletons := make([]model.ImageRecord, 0, len(first))
	for _, tag := range first {
		singletons = append(singletons, rec(tag, "", tag))
	}
	second := DistinctTags(singletons)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("DistinctTags не достиг неподвижной точки: %v → %v", first, second)
	}
	if !reflect.DeepEqual(first, []string{"a", "b", "c"}) {
		t.Errorf("DistinctTags = %v, ожидалось [a b c]", first)
	}
}

// TestGroupByFirstLetter проверяет алфавитный указатель.
func TestGroupByFirstLetter(t *testing.T) {
	groups := GroupByCategory([]model.ImageRecord{
		rec("1", "weather"), rec("2", "Notes"), rec("3", "Wallet"),
		rec("4", "notion"), rec("5", "Ålbum"), rec("6", ""),
	})

	sections := GroupByFirstLetter(groups)

	type flat struct {
		letter string
		names  []string
	}
	got := make([]flat, 0, len(sections))
	for _, s := range sections {
		f := flat{letter: s.Letter}
		for _, g := range s.Groups {
			f.names = append(f.names, g.Name)
		}
		got = append(got, f)
	}

	want := []flat{
		{"N", []string{"Notes", "notion"}},
		{"U", []string{Uncategorized}},
		{"W", []string{"Wallet", "weather"}},
		{"Å", []string{"Ålbum"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GroupByFirstLetter = %+v, ожидалось %+v", got, want)
	}
}

// TestCategoryNames проверяет список категорий без папок.
func TestCategoryNames(t *testing.T) {
	folder := model.ImageRecord{FileID: "f", Type: model.TypeFolder, CustomMetadata: map[string]any{"app": "Folder"}}
	records := []model.ImageRecord{rec("a", "Weather"), folder, rec("b", "Notes"), rec("c", ""), rec("d", "Weather")}

	want := []string{"Notes", Uncategorized, "Weather"}
	if got := CategoryNames(records); !reflect.DeepEqual(got, want) {
		t.Errorf("CategoryNames = %v, ожидалось %v", got, want)
	}
}

// TestCoverFor проверяет поиск обложки категории.
func TestCoverFor(t *testing.T) {
	thumbs := []model.ImageRecord{
		{FileID: "t1", Type: model.TypeFile, URL: "https://cdn/t1.jpg", CustomMetadata: map[string]any{"app": "Notes"}},
		{FileID: "t2", Type: model.TypeFile, URL: "https://cdn/t2.jpg", CustomMetadata: map[string]any{"app": "Weather"}},
	}

	cover := CoverFor(thumbs, "Weather")
	if cover == nil || cover.FileID != "t2" {
		t.Fatalf("CoverFor(Weather) = %+v, ожидалась t2", cover)
	}
	if CoverFor(thumbs, "Maps") != nil {
		t.Error("CoverFor(Maps) должен вернуть nil")
	}
}

// TestNormalizeTags проверяет нормализацию тегов.
func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" dark ", "", "ios", "dark", "  "})
	if !reflect.DeepEqual(got, []string{"dark", "ios"}) {
		t.Errorf("NormalizeTags = %v, ожидалось [dark ios]", got)
	}
}

// TestFilterByTags_Whitespace проверяет сравнение тегов без окружающих
// пробелов с обеих сторон.
func TestFilterByTags_Whitespace(t *testing.T) {
	records := []model.ImageRecord{rec("a", "X", " dark "), rec("b", "X", "light")}

	if got := ids(FilterByTags(records, []string{"dark  ", ""})); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("FilterByTags(dark) = %v, ожидалось [a]", got)
	}
	if got := FilterByTags(records, []string{"  "}); !reflect.DeepEqual(got, records) {
		t.Errorf("выбор из пустых тегов = %v, ожидался вход без изменений", ids(got))
	}
	if !records[0].HasTag("dark") {
		t.Error("HasTag(dark) = false для тега ' dark '")
	}
}
