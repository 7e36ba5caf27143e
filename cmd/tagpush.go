package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/vera-byte/vgo-pushctl/internal/router"
	"github.com/vera-byte/vgo-pushctl/pkg/model"
)

var tagPushCmd = &cobra.Command{
	Use:   "tag-push",
	Short: "Route tagged messages to specific push configs",
}

var tagPushForm struct {
	id      int64
	tag     string
	configs []int64
	enabled bool
	remark  string
}

func init() {
	list := &cobra.Command{Use: "list", Short: "List tag push configs", Args: cobra.NoArgs, RunE: runTagPushList}
	tags := &cobra.Command{Use: "tags", Short: "List known tag names", Args: cobra.NoArgs, RunE: runTagNames}
	targets := &cobra.Command{Use: "targets", Short: "List push configs that tags can route to", Args: cobra.NoArgs, RunE: runTagTargets}

	save := &cobra.Command{Use: "save", Short: "Create or update the routing of a tag", Args: cobra.NoArgs, RunE: runTagPushSave}
	save.Flags().Int64Var(&tagPushForm.id, "id", 0, "existing tag push config id")
	save.Flags().StringVar(&tagPushForm.tag, "tag", "", "tag name")
	save.Flags().Int64SliceVar(&tagPushForm.configs, "configs", nil, "push config ids, comma separated")
	save.Flags().BoolVar(&tagPushForm.enabled, "enabled", true, "enable the routing")
	save.Flags().StringVar(&tagPushForm.remark, "remark", "", "remark")
	_ = save.MarkFlagRequired("tag")

	del := &cobra.Command{Use: "delete <id>", Short: "Delete a tag push config", Args: cobra.ExactArgs(1), RunE: runTagPushDelete}

	tagPushCmd.AddCommand(list, tags, targets, save, del)
	RootCmd.AddCommand(routedTree(tagPushCmd, router.PathPushConfig))
}

func runTagPushList(cmd *cobra.Command, args []string) error {
	a, err := appFrom(cmd.Context())
	if err != nil {
		return err
	}
	items, err := a.Client.ListTagPushConfigs(cmd.Context())
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(items))
	for _, t := range items {
		ids := make([]string, 0, len(t.PushConfigIDs))
		for _, id := range t.PushConfigIDs {
			ids = append(ids, itoa(id))
		}
		rows = append(rows, []string{itoa(t.ID), t.TagName, strings.Join(ids, ","), yesNo(t.IsEnabled == 1), t.Remark})
	}
	return a.Printer.Print(items, []string{"ID", "Tag", "Push Configs", "Enabled", "Remark"}, rows)
}

func runTagNames(cmd *cobra.Command, args []string) error {
	a, err := appFrom(cmd.Context())
	if err != nil {
		return err
	}
	names, err := a.Client.TagNames(cmd.Context())
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(names))
	for _, n := range names {
		rows = append(rows, []string{n})
	}
	return a.Printer.Print(names, []string{"Tag"}, rows)
}

func runTagTargets(cmd *cobra.Command, args []string) error {
	a, err := appFrom(cmd.Context())
	if err != nil {
		return err
	}
	items, err := a.Client.UserPushConfigs(cmd.Context())
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(items))
	for _, c := range items {
		rows = append(rows, []string{itoa(c.ID), c.Platform, c.ConfigName, yesNo(c.IsEnabled == 1)})
	}
	return a.Printer.Print(items, []string{"ID", "Platform", "Name", "Enabled"}, rows)
}

func runTagPushSave(cmd *cobra.Command, args []string) error {
	a, err := appFrom(cmd.Context())
	if err != nil {
		return err
	}
	msg, err := a.Client.SaveTagPushConfig(cmd.Context(), model.TagPushConfig{
		ID:            tagPushForm.id,
		TagName:       tagPushForm.tag,
		PushConfigIDs: append([]int64{}, tagPushForm.configs...),
		IsEnabled:     boolInt(tagPushForm.enabled),
		Remark:        tagPushForm.remark,
	})
	if err != nil {
		return err
	}
	a.Notifier.Success(orDefault(msg, "saved"))
	return nil
}

func runTagPushDelete(cmd *cobra.Command, args []string) error {
	a, err := appFrom(cmd.Context())
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	msg, err := a.Client.DeleteTagPushConfig(cmd.Context(), id)
	if err != nil {
		return err
	}
	a.Notifier.Success(orDefault(msg, "deleted"))
	return nil
}
