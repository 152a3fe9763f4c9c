package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/san-kum/crabcrust/internal/library"
	"github.com/san-kum/crabcrust/internal/store"
	"github.com/san-kum/crabcrust/internal/term"
	"github.com/spf13/cobra"
)

var (
	libTag   string
	libTheme string
	libLoop  bool
	libClear bool
)

func newLibraryCmd() *cobra.Command {
	libCmd := &cobra.Command{
		Use:   "library",
		Short: "browse the dot matrix clip library",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list clips",
		Args:  cobra.NoArgs,
		RunE:  listClips,
	}
	listCmd.Flags().StringVar(&libTag, "tag", "", "only clips with this tag")
	listCmd.Flags().StringVar(&libTheme, "theme", "", "only clips of this theme")

	previewCmd := &cobra.Command{
		Use:   "preview [clip]",
		Short: "play a clip",
		Args:  cobra.ExactArgs(1),
		RunE:  previewClip,
	}
	previewCmd.Flags().BoolVar(&libLoop, "loop", false, "loop until interrupted")

	infoCmd := &cobra.Command{
		Use:   "info [clip]",
		Short: "show clip details",
		Args:  cobra.ExactArgs(1),
		RunE:  clipInfo,
	}

	tagsCmd := &cobra.Command{
		Use:   "tags",
		Short: "list tags with clip counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printCounts("tags", library.Builtin().Tags())
			return nil
		},
	}

	themesCmd := &cobra.Command{
		Use:   "themes",
		Short: "list themes with clip counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printCounts("themes", library.Builtin().Themes())
			return nil
		},
	}

	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "list converted clips in the cache",
		Args:  cobra.NoArgs,
		RunE:  listCache,
	}
	cacheCmd.Flags().BoolVar(&libClear, "clear", false, "delete every cached clip")

	libCmd.AddCommand(listCmd, previewCmd, infoCmd, tagsCmd, themesCmd, cacheCmd)
	return libCmd
}

func listClips(cmd *cobra.Command, args []string) error {
	cat := library.Builtin()
	clips := cat.List()
	if libTag != "" {
		clips = cat.ByTag(libTag)
	}
	if libTheme != "" {
		var kept []library.Clip
		for _, c := range clips {
			if strings.EqualFold(c.Theme, libTheme) {
				kept = append(kept, c)
			}
		}
		clips = kept
	}
	if len(clips) == 0 {
		fmt.Println(styles.Subtle.Render("no clips match"))
		return nil
	}

	loader := newLoader()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tFRAMES\tTHEME\tTAGS\tGIT\tFILE")
	for _, c := range clips {
		file := c.File
		if !loader.Available(c) {
			file += " (missing)"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n",
			c.Name, c.Frames, c.Theme, strings.Join(c.Tags, ","), strings.Join(c.Commands, ","), file)
	}
	return w.Flush()
}

func clipInfo(cmd *cobra.Command, args []string) error {
	clip, err := library.Builtin().Find(args[0])
	if err != nil {
		return err
	}
	loader := newLoader()

	fmt.Println(styles.Title.Render(clip.Name))
	fmt.Println(styles.Field("about", 10, clip.Description))
	fmt.Println(styles.Field("frames", 10, fmt.Sprint(clip.Frames)))
	fmt.Println(styles.Field("theme", 10, clip.Theme))
	fmt.Println(styles.Field("tags", 10, strings.Join(clip.Tags, ", ")))
	fmt.Println(styles.Field("git", 10, strings.Join(clip.Commands, ", ")))

	path := loader.Path(clip)
	if !loader.Available(clip) {
		path += " " + styles.Warning.Render("(missing)")
	}
	fmt.Println(styles.Field("file", 10, path))

	if meta, err := loader.Cache.Load(clip.Name); err == nil {
		fmt.Println(styles.Field("cached", 10, fmt.Sprintf("%d frames, %dx%d cells, %s",
			meta.Frames, meta.Width, meta.Height, meta.Duration().Round(time.Millisecond))))
	}
	return nil
}

func previewClip(cmd *cobra.Command, args []string) error {
	clip, err := library.Builtin().Find(args[0])
	if err != nil {
		return err
	}
	a, err := newLoader().Animation(cmd.Context(), clip, libLoop)
	if err != nil {
		return err
	}

	b := term.Stdio()
	p, err := openPlayer(b)
	if err != nil {
		return err
	}
	defer term.RestoreOnPanic(p.Close)
	defer p.Close()

	keys := watchKeys(cmd.Context(), b)
	defer keys.Stop()

	if err := p.Play(keys.Context(), a); err != nil {
		return played(keys, err)
	}
	return p.Close()
}

func listCache(cmd *cobra.Command, args []string) error {
	st := store.New(store.DefaultDir())
	clips, err := st.List()
	if err != nil {
		return err
	}
	if len(clips) == 0 {
		fmt.Println(styles.Subtle.Render("cache is empty: " + st.Dir()))
		return nil
	}

	if libClear {
		for _, m := range clips {
			if err := st.Delete(m.Name); err != nil {
				return err
			}
		}
		fmt.Printf("removed %d cached clip(s)\n", len(clips))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tFRAMES\tSIZE\tDURATION\tCREATED")
	for _, m := range clips {
		fmt.Fprintf(w, "%s\t%d\t%dx%d\t%s\t%s\n",
			m.Name, m.Frames, m.Width, m.Height, m.Duration().Round(time.Millisecond), m.Created.Format(time.DateTime))
	}
	return w.Flush()
}

func printCounts(title string, counts map[string]int) {
	fmt.Println(styles.Title.Render(title))
	for _, k := range library.SortedKeys(counts) {
		fmt.Printf("  %-16s %d\n", k, counts[k])
	}
}
