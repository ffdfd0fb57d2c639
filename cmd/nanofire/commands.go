package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/nanofire/nanofire"
)

func (cli *CLI) addCommands() {
	cli.rootCmd.AddCommand(
		cli.collectionsCommand(),
		cli.getCommand(),
		cli.listCommand(),
		cli.addCommand(),
		cli.setCommand(),
		cli.updateCommand(),
		cli.deleteCommand(),
	)
}

// addQueryFlags registers the pipeline flags shared by list, update and delete
func addQueryFlags(cmd *cobra.Command, withPaging bool) {
	cmd.Flags().StringArrayP("where", "w", nil, "Filter as field:operator:value (repeatable, combined with AND)")
	if withPaging {
		cmd.Flags().StringArrayP("order", "o", nil, "Sort as field or field:desc (repeatable)")
		cmd.Flags().Int("skip", 0, "Drop the first n documents")
		cmd.Flags().Int("limit", -1, "Keep at most n documents")
	}
}

// queryFromFlags builds the query described by the pipeline flags of cmd
func queryFromFlags(cmd *cobra.Command, ref *nanofire.CollectionRef) (*nanofire.Query, error) {
	wheres, _ := cmd.Flags().GetStringArray("where")
	orders, _ := cmd.Flags().GetStringArray("order")
	skip, _ := cmd.Flags().GetInt("skip")
	limit := -1
	if cmd.Flags().Lookup("limit") != nil {
		limit, _ = cmd.Flags().GetInt("limit")
	}

	stages, err := buildStages(wheres, orders, skip, limit)
	if err != nil {
		return nil, err
	}
	return nanofire.NewQuery(ref, stages...), nil
}

func matchMode(cmd *cobra.Command) nanofire.MatchMode {
	if one, _ := cmd.Flags().GetBool("expect-one"); one {
		return nanofire.ExpectOne
	}
	return nanofire.AllMatches
}

func (cli *CLI) collectionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "collections",
		Short: "List collections holding at least one document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := cli.printer(cmd)
			if err != nil {
				return err
			}
			return cli.withDB(cmd, "list collections", func(ctx context.Context, db *nanofire.DB) error {
				names, err := db.Collections(ctx)
				if err != nil {
					return WrapError("list collections", err)
				}
				return p.names(names)
			})
		},
	}
}

func (cli *CLI) getCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <collection> <id>",
		Short: "Print one document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := cli.printer(cmd)
			if err != nil {
				return err
			}
			return cli.withDB(cmd, "get document", func(ctx context.Context, db *nanofire.DB) error {
				ref := db.Doc(args[0], args[1])
				doc, err := nanofire.GetDoc(ref).Data(ctx)
				if err != nil {
					return WrapError("get document", err, CommonSuggestions.CheckID)
				}
				if doc == nil {
					return NewNotFoundError("get document", ref.Path(), CommonSuggestions.CheckID)
				}
				return p.document(doc)
			})
		},
	}
}

func (cli *CLI) listCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <collection>",
		Short: "Query a collection",
		Long: `Query a collection. Stages run as: every --where, every --order, --skip, --limit.

Examples:
  nanofire list people --where name:==:Mike --where 'age:>:18'
  nanofire list people --where 'likes:array-contains-any:["potatoes","coffee"]'
  nanofire list people --order age:desc --skip 1 --limit 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := cli.printer(cmd)
			if err != nil {
				return err
			}
			return cli.withDB(cmd, "list documents", func(ctx context.Context, db *nanofire.DB) error {
				q, err := queryFromFlags(cmd, db.Collection(args[0]))
				if err != nil {
					return err
				}
				cli.logger.Info("query", "query", q.String())

				docs, err := nanofire.GetDocs(q).Data(ctx)
				if err != nil {
					return WrapError("list documents", err, CommonSuggestions.RunHelp)
				}
				return p.documents(docs)
			})
		},
	}
	addQueryFlags(cmd, true)
	return cmd
}

func (cli *CLI) addCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <collection> <json|->",
		Short: "Store a document under a generated id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := cli.printer(cmd)
			if err != nil {
				return err
			}
			doc, err := parseDocument(args[1], cmd.InOrStdin())
			if err != nil {
				return err
			}
			return cli.withDB(cmd, "add document", func(ctx context.Context, db *nanofire.DB) error {
				ref, err := nanofire.AddDoc(ctx, db.Collection(args[0]), doc)
				if err != nil {
					return WrapError("add document", err, CommonSuggestions.CheckJSON)
				}
				stored, err := ref.GetDoc(ctx)
				if err != nil {
					return WrapError("add document", err)
				}
				return p.document(stored)
			})
		},
	}
}

func (cli *CLI) setCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <collection> <id> <json|->",
		Short: "Create or replace a document",
		Long:  "Create or replace a document. With --merge the fields are laid over the existing document instead.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := cli.printer(cmd)
			if err != nil {
				return err
			}
			doc, err := parseDocument(args[2], cmd.InOrStdin())
			if err != nil {
				return err
			}
			merge, _ := cmd.Flags().GetBool("merge")

			return cli.withDB(cmd, "set document", func(ctx context.Context, db *nanofire.DB) error {
				ref := db.Doc(args[0], args[1])
				var opts []nanofire.SetOption
				if merge {
					opts = append(opts, nanofire.Merge())
				}
				if err := nanofire.SetDoc(ctx, ref, doc, opts...); err != nil {
					return WrapError("set document", err, CommonSuggestions.CheckJSON)
				}
				stored, err := ref.GetDoc(ctx)
				if err != nil {
					return WrapError("set document", err)
				}
				return p.document(stored)
			})
		},
	}
	cmd.Flags().Bool("merge", false, "Merge into the existing document")
	return cmd
}

func (cli *CLI) updateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <collection> <json|-> (--where field:op:value | --all)",
		Short: "Merge fields into every document matching the filters",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := cli.printer(cmd)
			if err != nil {
				return err
			}
			wheres, _ := cmd.Flags().GetStringArray("where")
			if all, _ := cmd.Flags().GetBool("all"); len(wheres) == 0 && !all {
				return NewValidationError("update documents", "arguments", args[0],
					"Pass --where filters, or --all to update the whole collection")
			}
			fields, err := parseDocument(args[1], cmd.InOrStdin())
			if err != nil {
				return err
			}

			return cli.withDB(cmd, "update documents", func(ctx context.Context, db *nanofire.DB) error {
				q, err := queryFromFlags(cmd, db.Collection(args[0]))
				if err != nil {
					return err
				}
				n, err := nanofire.UpdateDocs(ctx, q, fields, matchMode(cmd))
				if err != nil {
					return WrapError("update documents", err)
				}
				return p.result(map[string]interface{}{"updated": n, "query": q.String()},
					fmt.Sprintf("updated %d document(s)", n))
			})
		},
	}
	addQueryFlags(cmd, false)
	cmd.Flags().Bool("expect-one", false, "Fail unless exactly one document matches")
	cmd.Flags().Bool("all", false, "Update every document of the collection")
	return cmd
}

func (cli *CLI) deleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <collection> [id]",
		Short: "Delete one document by id, or every document matching the filters",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := cli.printer(cmd)
			if err != nil {
				return err
			}
			wheres, _ := cmd.Flags().GetStringArray("where")
			if len(args) == 2 && len(wheres) > 0 {
				return NewValidationError("delete documents", "arguments", "id and --where",
					"Pass either an id or --where filters")
			}
			if all, _ := cmd.Flags().GetBool("all"); len(args) == 1 && len(wheres) == 0 && !all {
				return NewValidationError("delete documents", "arguments", args[0],
					"Pass an id, --where filters, or --all to empty the collection")
			}

			return cli.withDB(cmd, "delete documents", func(ctx context.Context, db *nanofire.DB) error {
				if len(args) == 2 {
					ref := db.Doc(args[0], args[1])
					if err := nanofire.DeleteDoc(ctx, ref); err != nil {
						return WrapError("delete document", err, CommonSuggestions.CheckID)
					}
					return p.result(map[string]interface{}{"deleted": ref.Path()},
						"deleted "+ref.Path())
				}

				q, err := queryFromFlags(cmd, db.Collection(args[0]))
				if err != nil {
					return err
				}
				n, err := nanofire.DeleteDocs(ctx, q, matchMode(cmd))
				if err != nil {
					return WrapError("delete documents", err)
				}
				return p.result(map[string]interface{}{"deleted": n, "query": q.String()},
					fmt.Sprintf("deleted %d document(s)", n))
			})
		},
	}
	addQueryFlags(cmd, false)
	cmd.Flags().Bool("expect-one", false, "Fail unless exactly one document matches")
	cmd.Flags().Bool("all", false, "Delete every document of the collection")
	return cmd
}
