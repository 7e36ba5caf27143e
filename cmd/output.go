package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// 输出格式
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

// maxCellWidth 表格单元格最大宽度
const maxCellWidth = 60

// Printer 命令结果输出
type Printer struct {
	out    io.Writer
	format string
}

// NewPrinter 创建输出器
func NewPrinter(out io.Writer, format string) *Printer {
	if format == "" {
		format = OutputTable
	}
	return &Printer{out: out, format: format}
}

// Print 按输出格式打印：json 时输出 v，否则输出表格
func (p *Printer) Print(v interface{}, header []string, rows [][]string) error {
	if p.format == OutputJSON {
		return p.JSON(v)
	}
	p.Table(header, rows)
	return nil
}

// JSON 输出缩进的JSON
func (p *Printer) JSON(v interface{}) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table 输出表格
func (p *Printer) Table(header []string, rows [][]string) {
	table := tablewriter.NewWriter(p.out)
	table.SetHeader(header)
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = truncate(cell, maxCellWidth)
		}
		table.Append(cells)
	}

	// 配置表格样式
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetCenterSeparator("|")
	table.SetColumnSeparator("|")
	table.SetRowSeparator("-")
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.Render()
}

// Fields 以两列表格输出键值对，json 时输出 v
func (p *Printer) Fields(v interface{}, pairs [][2]string) error {
	rows := make([][]string, 0, len(pairs))
	for _, kv := range pairs {
		rows = append(rows, []string{kv[0], kv[1]})
	}
	return p.Print(v, []string{"Field", "Value"}, rows)
}

// Message 输出服务端返回的提示
func (p *Printer) Message(msg string) {
	if msg == "" || p.format == OutputJSON {
		return
	}
	fmt.Fprintln(p.out, msg)
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
