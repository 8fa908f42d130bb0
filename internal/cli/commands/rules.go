package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapfluff/pkg/format"
	"github.com/leapstack-labs/leapfluff/pkg/lint"
)

type ruleInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Group       string   `json:"group"`
	Severity    string   `json:"severity"`
	Description string   `json:"description"`
	ConfigKeys  []string `json:"config_keys,omitempty"`
	Dialects    []string `json:"dialects,omitempty"`
	Rationale   string   `json:"rationale,omitempty"`
	BadExample  string   `json:"bad_example,omitempty"`
	GoodExample string   `json:"good_example,omitempty"`
}

func toRuleInfo(r lint.RuleDef) ruleInfo {
	return ruleInfo{
		ID:          r.ID,
		Name:        r.Name,
		Group:       r.Group,
		Severity:    r.Severity.String(),
		Description: r.Description,
		ConfigKeys:  r.ConfigKeys,
		Dialects:    r.Dialects,
		Rationale:   r.Rationale,
		BadExample:  r.BadExample,
		GoodExample: r.GoodExample,
	}
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	var group string
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List available lint rules",
		Example: `  # List all rules
  leapfluff rules

  # Show details for a specific rule
  leapfluff rules AM01

  # List rules in the aliasing group
  leapfluff rules --group aliasing`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0])
			}
			return listRules(cmd, group)
		},
	}
	cmd.Flags().StringVarP(&group, "group", "g", "", "Filter by group")
	return cmd
}

func listRules(cmd *cobra.Command, group string) error {
	cc := NewCommandContext(cmd)
	r := cc.Renderer

	rules := lint.GetAll()
	if group != "" {
		rules = lint.GetByGroup(group)
	}

	if strings.EqualFold(cc.Cfg.Output, format.JSON) {
		infos := make([]ruleInfo, 0, len(rules))
		for _, rule := range rules {
			infos = append(infos, toRuleInfo(rule))
		}
		return r.JSON(infos)
	}

	t := r.Table()
	t.AppendHeader(table.Row{"ID", "Name", "Severity", "Description"})
	for _, rule := range rules {
		t.AppendRow(table.Row{rule.ID, rule.Name, r.Severity(rule.Severity), rule.Description})
	}
	t.Render()
	return nil
}

func showRule(cmd *cobra.Command, id string) error {
	cc := NewCommandContext(cmd)
	r := cc.Renderer

	rule, ok := lint.GetByID(strings.ToUpper(id))
	if !ok {
		return fmt.Errorf("unknown lint rule %q", id)
	}
	if strings.EqualFold(cc.Cfg.Output, format.JSON) {
		return r.JSON(toRuleInfo(rule))
	}

	s := r.Styles()
	r.Println(s.Header.Render(rule.ID + " " + rule.Name))
	r.Println(rule.Description)
	r.Printf("%s %s\n", s.Muted.Render("Severity:"), r.Severity(rule.Severity))
	if len(rule.ConfigKeys) > 0 {
		r.Printf("%s %s\n", s.Muted.Render("Options:"), strings.Join(rule.ConfigKeys, ", "))
	}
	if len(rule.Dialects) > 0 {
		r.Printf("%s %s\n", s.Muted.Render("Dialects:"), strings.Join(rule.Dialects, ", "))
	}
	if rule.Rationale != "" {
		r.Println()
		r.Println(rule.Rationale)
	}
	if rule.BadExample != "" {
		r.Println()
		r.Println(s.Error.Render("Anti-pattern:"))
		r.Println(rule.BadExample)
	}
	if rule.GoodExample != "" {
		r.Println()
		r.Println(s.Success.Render("Best practice:"))
		r.Println(rule.GoodExample)
	}
	return nil
}
