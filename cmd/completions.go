package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

// completeNames filters names by prefix for the first positional argument.
func completeNames(args []string, toComplete string, list func() ([]string, error)) ([]string, cobra.ShellCompDirective) {
	if ctx == nil || len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	names, err := list()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var completions []string
	for _, n := range names {
		if strings.HasPrefix(strings.ToLower(n), strings.ToLower(toComplete)) {
			completions = append(completions, n)
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

// completeFieldArgs completes template field keys.
func completeFieldArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return completeNames(args, toComplete, func() ([]string, error) {
		templates, err := ctx.Journal.ListTemplates(ctx.UserID)
		names := make([]string, len(templates))
		for i, t := range templates {
			names[i] = t.FieldKey
		}
		return names, err
	})
}

// completeCounterArgs completes counter names.
func completeCounterArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return completeNames(args, toComplete, func() ([]string, error) {
		counters, err := ctx.Journal.ListCounters(ctx.UserID)
		names := make([]string, len(counters))
		for i, c := range counters {
			names[i] = c.Name
		}
		return names, err
	})
}

// completeTimerArgs completes duration tracker names.
func completeTimerArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return completeNames(args, toComplete, func() ([]string, error) {
		trackers, err := ctx.Journal.ListDurationTrackers(ctx.UserID)
		names := make([]string, len(trackers))
		for i, t := range trackers {
			names[i] = t.Name
		}
		return names, err
	})
}
