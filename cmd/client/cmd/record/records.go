package record

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/sppgdatasystem/bgn/internal/domain/record"
)

// RecordCmd - родительская команда для всех операций с записями
var RecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Управление записями",
	Long: `Добавление, просмотр, изменение и удаление записей таблиц
users, produksi, distribusi, logistik, settings.

Поля задаются флагом -f ключ=значение, флаг можно повторять.`,
}

var fields []string

// parseFields разбирает ключ=значение. Целые и дробные числа и true/false
// сохраняются как числа и логические значения, остальное как строки.
func parseFields(pairs []string) (record.Record, error) {
	rec := record.Record{}
	for _, p := range pairs {
		key, val, ok := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("поле %q: ожидается ключ=значение", p)
		}
		rec[key] = parseValue(val)
	}
	return rec, nil
}

func parseValue(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil && !hasLeadingZero(s) {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !hasLeadingZero(s) {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil && (s == "true" || s == "false") {
		return b
	}
	return s
}

// телефоны вида 0812... должны остаться строками
func hasLeadingZero(s string) bool {
	return len(s) > 1 && s[0] == '0' && s[1] != '.'
}

func checkTable(table string) error {
	if !record.IsRemote(table) {
		return fmt.Errorf("неизвестная таблица %q, доступны: %s", table, strings.Join(record.RemoteTables, ", "))
	}
	return nil
}

// columns возвращает ключи записей: сначала id, потом по алфавиту
func columns(rows []record.Record) []string {
	seen := map[string]bool{}
	var cols []string
	for _, r := range rows {
		for k := range r {
			if k == record.FieldID || seen[k] {
				continue
			}
			seen[k] = true
			cols = append(cols, k)
		}
	}
	sort.Strings(cols)
	return append([]string{record.FieldID}, cols...)
}
