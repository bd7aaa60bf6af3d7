// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package cli

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/marquee/internal/auth"
	"github.com/tomtom215/marquee/internal/recommend"
)

func newRecommendCmd(s *session) *cobra.Command {
	var (
		id      int64
		topK    int
		filters recommend.Filters
	)

	cmd := &cobra.Command{
		Use:   "recommend [title]",
		Short: "Recommend movies similar to a title or id",
		Example: `  marquee recommend "Avatar"
  marquee recommend "Avatar" -k 10 --min-rating 7 --max-year 2010
  marquee recommend --id 19995 --genre "Science Fiction"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := ""
			if len(args) == 1 {
				title = args[0]
			}
			if id == 0 && strings.TrimSpace(title) == "" {
				return errors.New("a title argument or --id is required")
			}

			components, model, err := s.loadModel(cmd.Context())
			if err != nil {
				return err
			}
			defer closeComponents(components)

			result, err := components.Recommender.Recommend(cmd.Context(), model, recommend.Query{
				ID:      id,
				Title:   title,
				TopK:    topK,
				Filters: filters,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if s.jsonOut {
				return writeJSON(out, result)
			}

			fmt.Fprintf(out, "Movies similar to %s\n", titleColor(result.MovieTitle))
			if result.Empty {
				fmt.Fprintln(out, warnColor("No recommendations matched the filters."))
				return nil
			}

			rows := make([][]string, len(result.Results))
			for i, r := range result.Results {
				rows[i] = []string{
					strconv.Itoa(r.Rank),
					r.Title,
					formatYear(r.Year),
					formatFloat(r.Rating, 1),
					formatFloat(r.Score, 3),
					r.PosterURL,
				}
			}
			return renderTable(out, []string{"#", "Title", "Year", "Rating", "Score", "Poster"}, rows)
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "Movie id; takes precedence over the title")
	cmd.Flags().IntVarP(&topK, "top-k", "k", 0, "Number of recommendations (default from config)")
	cmd.Flags().Float64Var(&filters.MinRating, "min-rating", 0, "Minimum vote average")
	cmd.Flags().IntVar(&filters.MaxYear, "max-year", 0, "Latest release year")
	cmd.Flags().IntVar(&filters.ExactYear, "exact-year", 0, "Exact release year")
	cmd.Flags().StringVar(&filters.Genre, "genre", "", "Required genre name")
	return cmd
}

func newSearchCmd(s *session) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find movie titles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			components, model, err := s.loadModel(cmd.Context())
			if err != nil {
				return err
			}
			defer closeComponents(components)

			hits := recommend.Search(model, args[0], limit)
			out := cmd.OutOrStdout()
			if s.jsonOut {
				return writeJSON(out, hits)
			}
			if len(hits) == 0 {
				fmt.Fprintln(out, warnColor("No titles matched."))
				return nil
			}

			rows := make([][]string, len(hits))
			for i := range hits {
				m := &hits[i]
				rows[i] = []string{
					strconv.FormatInt(m.ID, 10),
					m.Title,
					formatYear(m.Year()),
					formatFloat(m.VoteAverage, 1),
					strings.Join(m.Genres, ", "),
				}
			}
			return renderTable(out, []string{"ID", "Title", "Year", "Rating", "Genres"}, rows)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", recommend.DefaultSearchLimit, "Maximum number of results")
	return cmd
}

func newGenresCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "genres",
		Short: "List the genres available for filtering",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			components, model, err := s.loadModel(cmd.Context())
			if err != nil {
				return err
			}
			defer closeComponents(components)

			genres := recommend.Genres(model)
			out := cmd.OutOrStdout()
			if s.jsonOut {
				return writeJSON(out, genres)
			}
			if !model.Capabilities.GenreFilter {
				fmt.Fprintln(out, warnColor("The catalog only carries genre ids; genre filtering is unavailable."))
				return nil
			}
			for _, g := range genres {
				fmt.Fprintln(out, g)
			}
			return nil
		},
	}
}

func newInfoCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Build the model and print its statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			components, model, err := s.loadModel(cmd.Context())
			if err != nil {
				return err
			}
			defer closeComponents(components)

			out := cmd.OutOrStdout()
			if s.jsonOut {
				return writeJSON(out, map[string]interface{}{
					"version":      model.Version,
					"built_at":     model.BuiltAt,
					"movies":       model.Size(),
					"vocabulary":   model.Space.Width(),
					"genre_mode":   model.GenreMode,
					"capabilities": model.Capabilities,
					"load_stats":   model.Stats,
				})
			}

			st := model.Stats
			rows := [][]string{
				{"Source", st.Source},
				{"Records read", strconv.Itoa(st.Read)},
				{"Movies kept", strconv.Itoa(st.Kept)},
				{"Records dropped", strconv.Itoa(st.Dropped)},
				{"Vocabulary", strconv.Itoa(model.Space.Width())},
				{"Genre mode", string(model.GenreMode)},
				{"Genre filter", strconv.FormatBool(model.Capabilities.GenreFilter)},
				{"Build time", model.BuildDuration.Round(time.Millisecond).String()},
			}
			if st.PagesFetched > 0 || st.PagesFailed > 0 {
				rows = append(rows,
					[]string{"Pages fetched", strconv.Itoa(st.PagesFetched)},
					[]string{"Pages failed", strconv.Itoa(st.PagesFailed)})
			}
			reasons := make([]string, 0, len(st.DropReasons))
			for reason := range st.DropReasons {
				reasons = append(reasons, reason)
			}
			sort.Strings(reasons)
			for _, reason := range reasons {
				rows = append(rows, []string{"  dropped: " + reason, strconv.Itoa(st.DropReasons[reason])})
			}

			fmt.Fprintln(out, successColor("Model built"), mutedColor(fmt.Sprintf("(version %d)", model.Version)))
			return renderTable(out, []string{"Property", "Value"}, rows)
		},
	}
}

func newTokenCmd(s *session) *cobra.Command {
	var (
		user string
		role string
		ttl  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a signed token for the admin API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager, err := auth.NewJWTManager(&s.cfg.Security)
			if errors.Is(err, auth.ErrNoSecret) {
				return errors.New("JWT_SECRET is not configured")
			}
			if err != nil {
				return err
			}

			token, err := manager.GenerateToken(user, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "admin", "Token subject")
	cmd.Flags().StringVar(&role, "role", auth.RoleAdmin, "Token role")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (default JWT_TOKEN_TTL)")
	return cmd
}
