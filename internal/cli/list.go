package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"farm-service/internal/listing"
)

type listOptions struct {
	search   string
	sortBy   string
	desc     bool
	group    bool
	collapse []string
}

func (a *app) listCommand() *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:       "list <resource>",
		Short:     "List records with search, sorting and grouping",
		Args:      cobra.ExactArgs(1),
		ValidArgs: resourceNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := parseResource(args[0])
			if err != nil {
				return err
			}
			t, err := a.table(cmd.Context(), res)
			if err != nil {
				return err
			}
			return a.renderList(t, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.search, "search", "s", "", "keep rows whose name contains this text")
	cmd.Flags().StringVar(&opts.sortBy, "sort", "", "sort by name or group")
	cmd.Flags().BoolVar(&opts.desc, "desc", false, "reverse the sort order")
	cmd.Flags().BoolVarP(&opts.group, "group", "g", false, "group rows by parent")
	cmd.Flags().StringSliceVar(&opts.collapse, "collapse", nil, "groups to show collapsed")
	return cmd
}

func (a *app) renderList(t table, opts listOptions) error {
	rows := listing.Filter(t.rows, opts.search, func(r row) string { return r.Name })

	switch opts.sortBy {
	case "":
	case "name":
		rows = listing.Sort(rows, func(r row) string { return r.Name }, opts.desc)
	case "group":
		rows = listing.Sort(rows, func(r row) string { return r.Group }, opts.desc)
	default:
		return fmt.Errorf("cannot sort by %q", opts.sortBy)
	}

	withLayer := layerIDs(t.layers)
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)

	if !opts.group {
		writeRows(tw, t.header, rows, withLayer)
		return tw.Flush()
	}

	groups := listing.GroupBy(rows, func(r row) string { return r.Group })
	expansion := listing.Expansion{}
	for _, g := range groups {
		expansion.Toggle(g.Name)
	}
	for _, name := range opts.collapse {
		if expansion.Expanded(name) {
			expansion.Toggle(name)
		}
	}

	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		if !expansion.Expanded(g.Name) {
			fmt.Fprintf(tw, "+ %s (%d)\n", g.Name, len(g.Items))
			continue
		}
		fmt.Fprintf(tw, "- %s (%d)\n", g.Name, len(g.Items))
		writeRows(tw, t.header, g.Items, withLayer)
	}
	return tw.Flush()
}

func writeRows(w io.Writer, header []string, rows []row, withLayer map[uint]bool) {
	fmt.Fprintf(w, "ID\tNAME\tGROUP\t%s\tMAP\n", strings.Join(header, "\t"))
	for _, r := range rows {
		onMap := ""
		if withLayer[r.ID] {
			onMap = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			strconv.FormatUint(uint64(r.ID), 10), r.Name, r.Group, strings.Join(r.Columns, "\t"), onMap)
	}
}
