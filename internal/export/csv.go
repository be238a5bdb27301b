package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"fieldops/internal/models"
)

// WriteCSV пишет таблицу с заголовком; encoding/csv сам экранирует
// кавычки и запятые.
func WriteCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func SalesRows(sales []models.MasterSale) ([]string, [][]string) {
	header := []string{"id", "rep_id", "client_id", "amount", "quantity", "sold_at"}
	rows := make([][]string, 0, len(sales))
	for _, s := range sales {
		rows = append(rows, []string{
			strconv.Itoa(s.ID),
			strconv.Itoa(s.RepID),
			strconv.Itoa(s.ClientID),
			strconv.FormatFloat(s.Amount, 'f', 2, 64),
			strconv.Itoa(s.Quantity),
			s.SoldAt.Format(time.RFC3339),
		})
	}
	return header, rows
}

func AttendanceRows(logins []models.LoginHistory) ([]string, [][]string) {
	header := []string{"id", "staff_id", "login_at", "logout_at", "device"}
	rows := make([][]string, 0, len(logins))
	for _, h := range logins {
		logout := ""
		if h.LogoutAt != nil {
			logout = h.LogoutAt.Format(time.RFC3339)
		}
		rows = append(rows, []string{
			strconv.Itoa(h.ID),
			strconv.Itoa(h.StaffID),
			h.LoginAt.Format(time.RFC3339),
			logout,
			h.Device,
		})
	}
	return header, rows
}

func LeaveRows(leaves []models.LeaveRequest) ([]string, [][]string) {
	header := []string{"id", "staff_id", "type", "start_date", "end_date", "status", "reason"}
	rows := make([][]string, 0, len(leaves))
	for _, lr := range leaves {
		rows = append(rows, []string{
			strconv.Itoa(lr.ID),
			strconv.Itoa(lr.StaffID),
			string(lr.Type),
			lr.StartDate,
			lr.EndDate,
			string(lr.Status),
			lr.Reason,
		})
	}
	return header, rows
}

func PerformanceRows(perf []models.RepPerformance) ([]string, [][]string) {
	header := []string{"rep_id", "rep_name", "target", "total", "sales_count", "attainment"}
	rows := make([][]string, 0, len(perf))
	for _, p := range perf {
		rows = append(rows, []string{
			strconv.Itoa(p.RepID),
			p.RepName,
			strconv.FormatFloat(p.Target, 'f', 2, 64),
			strconv.FormatFloat(p.Total, 'f', 2, 64),
			strconv.Itoa(p.SalesCount),
			fmt.Sprintf("%.1f%%", p.Attainment*100),
		})
	}
	return header, rows
}
