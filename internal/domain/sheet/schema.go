package sheet

import "github.com/sppgdatasystem/bgn/internal/domain/record"

// Columns is the fixed column order of every sheet the service knows.
var Columns = map[string][]string{
	record.TableUsers:      {"id", "nama", "phone", "pin", "noPegawai", "jabatan", "role", "status", "createdAt"},
	record.TableProduksi:   {"id", "step", "label", "tanggal", "waktu", "user", "fotoFile", "fotoCount"},
	record.TableDistribusi: {"id", "kloter", "sekolah", "jumlahBox", "driver", "status", "tanggal", "waktu", "user", "fotoFile"},
	record.TableLogistik:   {"id", "nama", "berat", "harga", "qcStatus", "supplier", "tanggal", "waktu", "user", "fotoFile"},
	record.TableAudit:      {"id", "aksi", "detail", "user", "waktu", "tanggal"},
	record.TableSettings:   {"id", "value", "updatedAt", "updatedBy"},
}

// ResetSheets are wiped by resetData.
var ResetSheets = []string{record.TableProduksi, record.TableDistribusi, record.TableLogistik}

func Known(sheet string) bool {
	_, ok := Columns[sheet]
	return ok
}

// BuildRow projects item onto the sheet columns. Missing cells are empty strings.
func BuildRow(sheet string, item record.Record) record.Record {
	cols := Columns[sheet]
	row := make(record.Record, len(cols))
	for _, c := range cols {
		v, ok := item[c]
		if !ok || v == nil {
			v = ""
		}
		row[c] = v
	}
	return row
}

// MergeRow overrides the columns present in item and keeps the rest of current.
// The id column always comes from current.
func MergeRow(sheet string, current, item record.Record) record.Record {
	cols := Columns[sheet]
	row := make(record.Record, len(cols))
	for _, c := range cols {
		if v, ok := item[c]; ok {
			row[c] = v
			continue
		}
		row[c] = current[c]
	}
	if _, ok := row[record.FieldID]; ok {
		row[record.FieldID] = current[record.FieldID]
	}
	return row
}
