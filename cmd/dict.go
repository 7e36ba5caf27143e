package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/vera-byte/vgo-pushctl/internal/router"
	"github.com/vera-byte/vgo-pushctl/pkg/model"
)

var dictCmd = &cobra.Command{
	Use:   "dict",
	Short: "Manage dictionaries (admin only)",
}

var dictTypeCmd = &cobra.Command{
	Use:   "type",
	Short: "Manage dictionary types",
}

var dictDataCmd = &cobra.Command{
	Use:   "data",
	Short: "Manage dictionary data",
}

var dictTypeListOpts model.DictTypeQuery

var dictTypeForm struct {
	name   string
	typ    string
	status int
	remark string
}

var dictDataListOpts model.DictDataQuery

var dictDataForm struct {
	typ       string
	label     string
	value     string
	sort      int
	cssClass  string
	listClass string
	isDefault bool
	status    int
	remark    string
}

func init() {
	typeList := &cobra.Command{Use: "list", Short: "List dictionary types", Args: cobra.NoArgs, RunE: runDictTypeList}
	typeList.Flags().IntVar(&dictTypeListOpts.PageNum, "page", 1, "page number")
	typeList.Flags().IntVar(&dictTypeListOpts.PageSize, "size", 10, "page size")
	typeList.Flags().StringVar(&dictTypeListOpts.DictName, "name", "", "filter by name")
	typeList.Flags().StringVar(&dictTypeListOpts.DictType, "type", "", "filter by type key")

	typeGet := &cobra.Command{Use: "get <id>", Short: "Show a dictionary type", Args: cobra.ExactArgs(1), RunE: runDictTypeGet}
	typeCreate := &cobra.Command{Use: "create", Short: "Create a dictionary type", Args: cobra.NoArgs, RunE: runDictTypeSave}
	typeUpdate := &cobra.Command{Use: "update <id>", Short: "Update a dictionary type", Args: cobra.ExactArgs(1), RunE: runDictTypeSave}
	for _, c := range []*cobra.Command{typeCreate, typeUpdate} {
		c.Flags().StringVar(&dictTypeForm.name, "name", "", "display name")
		c.Flags().StringVar(&dictTypeForm.typ, "type", "", "type key")
		c.Flags().IntVar(&dictTypeForm.status, "status", 0, "status (0 normal, 1 disabled)")
		c.Flags().StringVar(&dictTypeForm.remark, "remark", "", "remark")
	}
	typeDelete := &cobra.Command{Use: "delete <id>", Short: "Delete a dictionary type and its data", Args: cobra.ExactArgs(1), RunE: runDictTypeDelete}
	dictTypeCmd.AddCommand(typeList, typeGet, typeCreate, typeUpdate, typeDelete)

	dataList := &cobra.Command{Use: "list", Short: "List dictionary data", Args: cobra.NoArgs, RunE: runDictDataList}
	dataList.Flags().IntVar(&dictDataListOpts.PageNum, "page", 1, "page number")
	dataList.Flags().IntVar(&dictDataListOpts.PageSize, "size", 10, "page size")
	dataList.Flags().StringVar(&dictDataListOpts.DictType, "type", "", "filter by type key")
	dataList.Flags().StringVar(&dictDataListOpts.DictLabel, "label", "", "filter by label")

	dataByType := &cobra.Command{Use: "by-type <dictType>", Short: "List enabled data of a type", Args: cobra.ExactArgs(1), RunE: runDictDataByType}
	dataGet := &cobra.Command{Use: "get <id>", Short: "Show dictionary data", Args: cobra.ExactArgs(1), RunE: runDictDataGet}
	dataCreate := &cobra.Command{Use: "create", Short: "Create dictionary data", Args: cobra.NoArgs, RunE: runDictDataSave}
	dataUpdate := &cobra.Command{Use: "update <id>", Short: "Update dictionary data", Args: cobra.ExactArgs(1), RunE: runDictDataSave}
	for _, c := range []*cobra.Command{dataCreate, dataUpdate} {
		c.Flags().StringVar(&dictDataForm.typ, "type", "", "type key")
		c.Flags().StringVar(&dictDataForm.label, "label", "", "label")
		c.Flags().StringVar(&dictDataForm.value, "value", "", "value")
		c.Flags().IntVar(&dictDataForm.sort, "sort", 0, "sort order")
		c.Flags().StringVar(&dictDataForm.cssClass, "css-class", "", "css class")
		c.Flags().StringVar(&dictDataForm.listClass, "list-class", "", "list class")
		c.Flags().BoolVar(&dictDataForm.isDefault, "default", false, "mark as default")
		c.Flags().IntVar(&dictDataForm.status, "status", 0, "status (0 normal, 1 disabled)")
		c.Flags().StringVar(&dictDataForm.remark, "remark", "", "remark")
	}
	dataDelete := &cobra.Command{Use: "delete <id>", Short: "Delete dictionary data", Args: cobra.ExactArgs(1), RunE: runDictDataDelete}
	dataLabel := &cobra.Command{Use: "label <dictType> <value>", Short: "Resolve the label of a value", Args: cobra.ExactArgs(2), RunE: runDictLabel}
	dictDataCmd.AddCommand(dataList, dataByType, dataGet, dataCreate, dataUpdate, dataDelete, dataLabel)

	dictCmd.AddCommand(dictTypeCmd, dictDataCmd)
	RootCmd.AddCommand(routedTree(dictCmd, router.PathDictManagement))
}

func runDictTypeList(cmd *cobra.Command, args []string) error {
	a, err := appFrom(cmd.Context())
	if err != nil {
		return err
	}
	page, err := a.Client.ListDictTypes(cmd.Context(), dictTypeListOpts)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(page.Records))
	for _, t := range page.Records {
		rows = append(rows, []string{itoa(t.ID), t.DictName, t.DictType, status(t.Status), t.Remark, t.CreateTime})
	}
	if err := a.Printer.Print(page, []string{"ID", "Name", "Type", "Status", "Remark", "Created"}, rows); err != nil {
		return err
	}
	a.Printer.Message(pageSummary(page.Total, page.Page, page.Pages))
	return nil
}

func runDictTypeGet(cmd *cobra.Command, args []string) error {
	a, err := appFrom(cmd.Context())
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	t, err := a.Client.GetDictType(cmd.Context(), id)
	if err != nil {
		return err
	}
	return a.Printer.Fields(t, [][2]string{
		{"ID", itoa(t.ID)},
		{"Name", t.DictName},
		{"Type", t.DictType},
		{"Status", status(t.Status)},
		{"Remark", t.Remark},
		{"Created", t.CreateTime},
		{"Updated", t.UpdateTime},
	})
}

func runDictTypeSave(cmd *cobra.Command, args []string) error {
	a, err := appFrom(cmd.Context())
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var t model.DictType
	if len(args) == 1 {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		current, err := a.Client.GetDictType(ctx, id)
		if err != nil {
			return err
		}
		t = *current
	}

	flags := cmd.Flags()
	if flags.Changed("name") || t.ID == 0 {
		t.DictName = dictTypeForm.name
	}
	if flags.Changed("type") || t.ID == 0 {
		t.DictType = dictTypeForm.typ
	}
	if flags.Changed("status") || t.ID == 0 {
		t.Status = dictTypeForm.status
	}
	if flags.Changed("remark") || t.ID == 0 {
		t.Remark = dictTypeForm.remark
	}

	var msg string
	if t.ID == 0 {
		msg, err = a.Client.CreateDictType(ctx, t)
	} else {
		msg, err = a.Client.UpdateDictType(ctx, t)
	}
	if err != nil {
		return err
	}
	a.Notifier.Success(orDefault(msg, "saved"))
	return nil
}

func runDictTypeDelete(cmd *cobra.Command, args []string) error {
	a, err := appFrom(cmd.Context())
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	msg, err := a.Client.DeleteDictType(cmd.Context(), id)
	if err != nil {
		return err
	}
	a.Notifier.Success(orDefault(msg, "deleted"))
	return nil
}

func runDictDataList(cmd *cobra.Command, args []string) error {
	a, err := appFrom(cmd.Context())
	if err != nil {
		return err
	}
	page, err := a.Client.ListDictData(cmd.Context(), dictDataListOpts)
	if err != nil {
		return err
	}
	if err := a.Printer.Print(page, dictDataHeader, dictDataRows(page.Records)); err != nil {
		return err
	}
	a.Printer.Message(pageSummary(page.Total, page.Page, page.Pages))
	return nil
}

func runDictDataByType(cmd *cobra.Command, args []string) error {
	a, err := appFrom(cmd.Context())
	if err != nil {
		return err
	}
	items, err := a.Client.DictDataByType(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return a.Printer.Print(items, dictDataHeader, dictDataRows(items))
}

func runDictDataGet(cmd *cobra.Command, args []string) error {
	a, err := appFrom(cmd.Context())
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	d, err := a.Client.GetDictData(cmd.Context(), id)
	if err != nil {
		return err
	}
	return a.Printer.Fields(d, [][2]string{
		{"ID", itoa(d.ID)},
		{"Type", d.DictType},
		{"Label", d.DictLabel},
		{"Value", d.DictValue},
		{"Sort", strconv.Itoa(d.DictSort)},
		{"Default", yesNo(d.IsDefault == 1)},
		{"Status", status(d.Status)},
		{"Remark", d.Remark},
	})
}

func runDictDataSave(cmd *cobra.Command, args []string) error {
	a, err := appFrom(cmd.Context())
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var d model.DictData
	if len(args) == 1 {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		current, err := a.Client.GetDictData(ctx, id)
		if err != nil {
			return err
		}
		d = *current
	}

	flags := cmd.Flags()
	set := func(name string) bool { return flags.Changed(name) || d.ID == 0 }
	if set("type") {
		d.DictType = dictDataForm.typ
	}
	if set("label") {
		d.DictLabel = dictDataForm.label
	}
	if set("value") {
		d.DictValue = dictDataForm.value
	}
	if set("sort") {
		d.DictSort = dictDataForm.sort
	}
	if set("css-class") {
		d.CSSClass = dictDataForm.cssClass
	}
	if set("list-class") {
		d.ListClass = dictDataForm.listClass
	}
	if set("default") {
		d.IsDefault = boolInt(dictDataForm.isDefault)
	}
	if set("status") {
		d.Status = dictDataForm.status
	}
	if set("remark") {
		d.Remark = dictDataForm.remark
	}

	var msg string
	if d.ID == 0 {
		msg, err = a.Client.CreateDictData(ctx, d)
	} else {
		msg, err = a.Client.UpdateDictData(ctx, d)
	}
	if err != nil {
		return err
	}
	a.Notifier.Success(orDefault(msg, "saved"))
	return nil
}

func runDictDataDelete(cmd *cobra.Command, args []string) error {
	a, err := appFrom(cmd.Context())
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	msg, err := a.Client.DeleteDictData(cmd.Context(), id)
	if err != nil {
		return err
	}
	a.Notifier.Success(orDefault(msg, "deleted"))
	return nil
}

func runDictLabel(cmd *cobra.Command, args []string) error {
	a, err := appFrom(cmd.Context())
	if err != nil {
		return err
	}
	label, err := a.Client.DictLabel(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	if a.Printer.format == OutputJSON {
		return a.Printer.JSON(map[string]string{"dictType": args[0], "dictValue": args[1], "dictLabel": label})
	}
	fmt.Fprintln(cmd.OutOrStdout(), label)
	return nil
}

var dictDataHeader = []string{"ID", "Type", "Label", "Value", "Sort", "Default", "Status"}

func dictDataRows(items []model.DictData) [][]string {
	rows := make([][]string, 0, len(items))
	for _, d := range items {
		rows = append(rows, []string{
			itoa(d.ID), d.DictType, d.DictLabel, d.DictValue,
			strconv.Itoa(d.DictSort), yesNo(d.IsDefault == 1), status(d.Status),
		})
	}
	return rows
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func status(v int) string {
	if v == 0 {
		return "normal"
	}
	return "disabled"
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func pageSummary(total, page, pages int64) string {
	return fmt.Sprintf("total %d, page %d/%d", total, page, pages)
}
