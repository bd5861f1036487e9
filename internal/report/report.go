// Package report выводит итоговое состояние счетов.
package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/ignatzorin/ledger-engine/internal/domain/entity"
)

// Header задаёт колонки CSV снимка.
var Header = []string{"client", "available", "held", "total", "locked"}

// Row описывает строку снимка; суммы уже отформатированы с заданной точностью.
type Row struct {
	Client    uint16 `json:"client"`
	Available string `json:"available"`
	Held      string `json:"held"`
	Total     string `json:"total"`
	Locked    bool   `json:"locked"`
}

// Rows переводит счета в строки снимка, сохраняя порядок.
func Rows(clients []*entity.ClientAccount, precision int32) []Row {
	rows := make([]Row, 0, len(clients))
	for _, c := range clients {
		rows = append(rows, Row{
			Client:    uint16(c.ID()),
			Available: c.Available().Format(precision),
			Held:      c.Held().Format(precision),
			Total:     c.Total().Format(precision),
			Locked:    c.IsFrozen(),
		})
	}
	return rows
}

// WriteCSV пишет заголовок и по строке на клиента.
func WriteCSV(w io.Writer, clients []*entity.ClientAccount, precision int32) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, row := range Rows(clients, precision) {
		record := []string{
			strconv.FormatUint(uint64(row.Client), 10),
			row.Available,
			row.Held,
			row.Total,
			strconv.FormatBool(row.Locked),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
