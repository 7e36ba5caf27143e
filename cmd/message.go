package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vera-byte/vgo-pushctl/internal/router"
	"github.com/vera-byte/vgo-pushctl/pkg/model"
)

var messageCmd = &cobra.Command{
	Use:     "message",
	Aliases: []string{"msg"},
	Short:   "Browse message records",
}

var messageListOpts model.MessageQuery

var statsDays int

func init() {
	list := &cobra.Command{Use: "list", Short: "List message records", Args: cobra.NoArgs, RunE: runMessageList}
	list.Flags().IntVar(&messageListOpts.Page, "page", 1, "page number")
	list.Flags().IntVar(&messageListOpts.Size, "size", 10, "page size")
	list.Flags().StringVar(&messageListOpts.MessageType, "type", "", "message type")
	list.Flags().StringVar(&messageListOpts.StartTime, "from", "", "start time, e.g. 2024-05-01 00:00:00")
	list.Flags().StringVar(&messageListOpts.EndTime, "to", "", "end time")

	get := &cobra.Command{Use: "get <id>", Short: "Show a message record", Args: cobra.ExactArgs(1), RunE: runMessageGet}
	pushes := &cobra.Command{Use: "pushes <id>", Short: "Show push records of a message", Args: cobra.ExactArgs(1), RunE: runMessagePushes}

	stats := &cobra.Command{Use: "stats", Short: "Show message statistics", Args: cobra.NoArgs, RunE: runMessageStats}
	stats.Flags().IntVar(&statsDays, "days", 7, "number of days")

	messageCmd.AddCommand(list, get, pushes, stats)
	RootCmd.AddCommand(routedTree(messageCmd, router.PathMessages))
}

func runMessageList(cmd *cobra.Command, args []string) error {
	a, err := appFrom(cmd.Context())
	if err != nil {
		return err
	}
	page, err := a.Client.ListMessages(cmd.Context(), messageListOpts)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(page.Records))
	for _, m := range page.Records {
		rows = append(rows, []string{
			m.ID, m.MessageType, m.Title, strings.Join(m.Tags, ","),
			strings.Join(m.PushedPlatforms, ","),
			fmt.Sprintf("%d/%d", m.PushSuccessCount, m.PushFailCount),
			m.CreateTime,
		})
	}
	if err := a.Printer.Print(page, []string{"ID", "Type", "Title", "Tags", "Platforms", "OK/Fail", "Created"}, rows); err != nil {
		return err
	}
	a.Printer.Message(pageSummary(page.Total, page.Page, page.Pages))
	return nil
}

func runMessageGet(cmd *cobra.Command, args []string) error {
	a, err := appFrom(cmd.Context())
	if err != nil {
		return err
	}
	m, err := a.Client.GetMessage(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return a.Printer.Fields(m, [][2]string{
		{"ID", m.ID},
		{"Type", m.MessageType},
		{"Title", m.Title},
		{"Subtitle", m.Subtitle},
		{"Content", m.Content},
		{"Group", m.Group},
		{"URL", m.URL},
		{"Source", m.Source},
		{"Level", m.Level},
		{"Tags", strings.Join(m.Tags, ",")},
		{"Platforms", strings.Join(m.PushedPlatforms, ",")},
		{"Succeeded", strconv.Itoa(m.PushSuccessCount)},
		{"Failed", strconv.Itoa(m.PushFailCount)},
		{"Created", m.CreateTime},
	})
}

func runMessagePushes(cmd *cobra.Command, args []string) error {
	a, err := appFrom(cmd.Context())
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	records, err := a.Client.MessagePushRecords(cmd.Context(), id)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			itoa(r.ID), r.Platform, r.ConfigName, pushStatus(r.PushStatus),
			strconv.Itoa(r.RetryCount), r.ErrorMessage, r.PushTime,
		})
	}
	return a.Printer.Print(records, []string{"ID", "Platform", "Config", "Status", "Retries", "Error", "Pushed"}, rows)
}

func runMessageStats(cmd *cobra.Command, args []string) error {
	a, err := appFrom(cmd.Context())
	if err != nil {
		return err
	}
	stats, err := a.Client.MessageStatistics(cmd.Context(), statsDays)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([][2]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, [2]string{k, formatStat(stats[k])})
	}
	return a.Printer.Fields(stats, pairs)
}

// formatStat 把统计值格式化为单行文本，嵌套对象按键排序展开
func formatStat(v interface{}) string {
	switch val := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+"="+formatStat(val[k]))
		}
		return strings.Join(parts, " ")
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(val)
	}
}

func pushStatus(v int) string {
	switch v {
	case 1:
		return "success"
	case 2:
		return "failed"
	default:
		return "pending"
	}
}
