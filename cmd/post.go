package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/insighthub/cli/internal/api"
	"github.com/insighthub/cli/internal/config"
	"github.com/spf13/cobra"
)

var (
	flagPostTitle    string
	flagPostCategory string
	flagPostFile     string
	flagPostImage    string
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Read and manage posts",
}

var postViewCmd = &cobra.Command{
	Use:   "view <post-id>",
	Short: "Print one post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		post, err := client.GetPost(ctx, args[0])
		if err != nil {
			return fmt.Errorf("fetching post: %w", err)
		}

		fmt.Println(post.Title)
		meta := post.DisplayCategory()
		if post.Author.Name != "" {
			meta += " · " + post.Author.Name
		}
		if !post.CreatedAt.IsZero() {
			meta += " · " + post.CreatedAt.Format("Jan 2, 2006")
		}
		fmt.Println(meta)
		fmt.Println()
		fmt.Println(flattenHTML(post.Content))
		return nil
	},
}

var postCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Publish a new post",
	Long:  "Publish a post with the body read from --file (or stdin when omitted).",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagPostTitle == "" {
			return fmt.Errorf("--title is required")
		}
		content, err := readBody(flagPostFile)
		if err != nil {
			return err
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		post, err := client.CreatePost(ctx, api.PostDraft{
			Title:    flagPostTitle,
			Category: flagPostCategory,
			Content:  content,
			Image:    flagPostImage,
		})
		if err != nil {
			if api.IsUnauthorized(err) {
				return fmt.Errorf("not logged in; run `insighthub login` first")
			}
			return fmt.Errorf("creating post: %w", err)
		}

		fmt.Printf("Published %q (id %s)\n", post.Title, post.ID)
		return nil
	},
}

var postEditCmd = &cobra.Command{
	Use:   "edit <post-id>",
	Short: "Update one of your posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Start from the stored post so omitted flags keep their values.
		current, err := client.GetPost(ctx, args[0])
		if err != nil {
			return fmt.Errorf("fetching post: %w", err)
		}

		draft := api.PostDraft{
			Title:    current.Title,
			Category: current.Category,
			Content:  current.Content,
			Image:    current.AssetRef,
		}
		if flagPostTitle != "" {
			draft.Title = flagPostTitle
		}
		if flagPostCategory != "" {
			draft.Category = flagPostCategory
		}
		if flagPostImage != "" {
			draft.Image = flagPostImage
		}
		if flagPostFile != "" {
			content, err := readBody(flagPostFile)
			if err != nil {
				return err
			}
			draft.Content = content
		}

		if err := client.UpdatePost(ctx, args[0], draft); err != nil {
			if api.IsUnauthorized(err) {
				return fmt.Errorf("not logged in; run `insighthub login` first")
			}
			return fmt.Errorf("updating post: %w", err)
		}
		fmt.Println("Updated.")
		return nil
	},
}

var postDeleteCmd = &cobra.Command{
	Use:   "delete <post-id>",
	Short: "Delete one of your posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := client.DeletePost(ctx, args[0]); err != nil {
			if api.IsUnauthorized(err) {
				return fmt.Errorf("not logged in; run `insighthub login` first")
			}
			return fmt.Errorf("deleting post: %w", err)
		}
		fmt.Println("Deleted.")
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{postCreateCmd, postEditCmd} {
		c.Flags().StringVar(&flagPostTitle, "title", "", "post title")
		c.Flags().StringVar(&flagPostCategory, "category", "", "post category")
		c.Flags().StringVar(&flagPostFile, "file", "", "file with the post body")
		c.Flags().StringVar(&flagPostImage, "image", "", "storage key of the header image")
	}
	postCmd.AddCommand(postViewCmd)
	postCmd.AddCommand(postCreateCmd)
	postCmd.AddCommand(postEditCmd)
	postCmd.AddCommand(postDeleteCmd)
}

func newClient() (*api.Client, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	client, err := api.NewClient(cfg.Server.URL, config.SessionPath())
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}
	return client, nil
}

func readBody(path string) (string, error) {
	var data []byte
	var err error
	if path == "" {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading body from stdin: %w", err)
		}
	} else {
		data, err = os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading body file: %w", err)
		}
	}
	body := strings.TrimSpace(string(data))
	if body == "" {
		return "", fmt.Errorf("post body is empty")
	}
	return body, nil
}

// flattenHTML drops tags for plain-terminal output while keeping
// paragraph breaks.
func flattenHTML(s string) string {
	s = strings.ReplaceAll(s, "</p>", "\n\n")
	s = strings.ReplaceAll(s, "<br>", "\n")
	s = strings.ReplaceAll(s, "<br/>", "\n")

	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
