package main

import (
	"context"
	"flag"
	"io"
	"strings"

	"github.com/tigermood/moodcorner/pkg/apiclient"
	"github.com/tigermood/moodcorner/pkg/models"
)

type command struct {
	usage string
	run   func(ctx context.Context, c *apiclient.Client, args []string) (any, error)
}

var commands = map[string]command{
	"login": {
		usage: "-email <email> -password <password>",
		run: func(ctx context.Context, c *apiclient.Client, args []string) (any, error) {
			fs := newFlagSet("login")
			email := fs.String("email", "", "account email")
			password := fs.String("password", "", "account password")
			if err := parse(fs, args, 0); err != nil {
				return nil, err
			}
			if *email == "" || *password == "" {
				return nil, usagef("-email and -password are required")
			}
			return c.Login(ctx, *email, *password)
		},
	},
	"register": {
		usage: "-email <email> -password <password> -name <name>",
		run: func(ctx context.Context, c *apiclient.Client, args []string) (any, error) {
			fs := newFlagSet("register")
			email := fs.String("email", "", "account email")
			password := fs.String("password", "", "account password")
			name := fs.String("name", "", "display name")
			if err := parse(fs, args, 0); err != nil {
				return nil, err
			}
			if *email == "" || *password == "" || *name == "" {
				return nil, usagef("-email, -password and -name are required")
			}
			return c.Register(ctx, *email, *password, *name)
		},
	},
	"logout": {
		usage: "",
		run: func(ctx context.Context, c *apiclient.Client, args []string) (any, error) {
			if err := parse(newFlagSet("logout"), args, 0); err != nil {
				return nil, err
			}
			return nil, c.Logout(ctx)
		},
	},
	"me": {
		usage: "",
		run: func(ctx context.Context, c *apiclient.Client, args []string) (any, error) {
			if err := parse(newFlagSet("me"), args, 0); err != nil {
				return nil, err
			}
			return c.GetCurrentUser(ctx)
		},
	},
	"profile": {
		usage: "[-name <name>] [-avatar <url>]",
		run: func(ctx context.Context, c *apiclient.Client, args []string) (any, error) {
			fs := newFlagSet("profile")
			name := fs.String("name", "", "new display name")
			avatar := fs.String("avatar", "", "new avatar URL")
			if err := parse(fs, args, 0); err != nil {
				return nil, err
			}
			if *name == "" && *avatar == "" {
				return nil, usagef("nothing to update")
			}
			return c.UpdateProfile(ctx, models.UpdateProfileRequest{Name: *name, AvatarURL: *avatar})
		},
	},
	"password": {
		usage: "-current <password> -new <password>",
		run: func(ctx context.Context, c *apiclient.Client, args []string) (any, error) {
			fs := newFlagSet("password")
			current := fs.String("current", "", "current password")
			next := fs.String("new", "", "new password")
			if err := parse(fs, args, 0); err != nil {
				return nil, err
			}
			if *current == "" || *next == "" {
				return nil, usagef("-current and -new are required")
			}
			return nil, c.ChangePassword(ctx, models.ChangePasswordRequest{CurrentPassword: *current, NewPassword: *next})
		},
	},
	"posts": {
		usage: "[-page n] [-limit n]",
		run: func(ctx context.Context, c *apiclient.Client, args []string) (any, error) {
			page, limit, err := pageFlags("posts", args)
			if err != nil {
				return nil, err
			}
			return c.GetPosts(ctx, page, limit)
		},
	},
	"post":      byID("post", (*apiclient.Client).GetPost),
	"share":     byID("share", (*apiclient.Client).SharePost),
	"unlike":    byID("unlike", (*apiclient.Client).UnlikePost),
	"pin":       byID("pin", (*apiclient.Client).PinPost),
	"highlight": byID("highlight", (*apiclient.Client).HighlightPost),
	"like":      byID("like", (*apiclient.Client).LikePost),
	"create-post": {
		usage: "-image <url> [-caption <text>]",
		run: func(ctx context.Context, c *apiclient.Client, args []string) (any, error) {
			fs := newFlagSet("create-post")
			image := fs.String("image", "", "uploaded image URL")
			caption := fs.String("caption", "", "caption")
			if err := parse(fs, args, 0); err != nil {
				return nil, err
			}
			if *image == "" {
				return nil, usagef("-image is required")
			}
			return c.CreatePost(ctx, models.CreatePostRequest{ImageURL: *image, Caption: *caption})
		},
	},
	"delete-post": {
		usage: "<post-id>",
		run: func(ctx context.Context, c *apiclient.Client, args []string) (any, error) {
			fs := newFlagSet("delete-post")
			if err := parse(fs, args, 1); err != nil {
				return nil, err
			}
			return nil, c.DeletePost(ctx, fs.Arg(0))
		},
	},
	"rewards": {
		usage: "[-page n] [-limit n]",
		run: func(ctx context.Context, c *apiclient.Client, args []string) (any, error) {
			page, limit, err := pageFlags("rewards", args)
			if err != nil {
				return nil, err
			}
			return c.GetRewards(ctx, page, limit)
		},
	},
	"redeem": {
		usage: "-reward <id> -name <receiver> -phone <phone> -address <address>",
		run: func(ctx context.Context, c *apiclient.Client, args []string) (any, error) {
			fs := newFlagSet("redeem")
			var req models.CreateRedeemRequest
			fs.StringVar(&req.RewardID, "reward", "", "reward id")
			fs.StringVar(&req.ReceiverName, "name", "", "receiver name")
			fs.StringVar(&req.ReceiverPhone, "phone", "", "receiver phone")
			fs.StringVar(&req.ReceiverAddress, "address", "", "delivery address")
			if err := parse(fs, args, 0); err != nil {
				return nil, err
			}
			if req.RewardID == "" {
				return nil, usagef("-reward is required")
			}
			return c.CreateRedeemRequest(ctx, req)
		},
	},
	"history": {
		usage: "",
		run: func(ctx context.Context, c *apiclient.Client, args []string) (any, error) {
			if err := parse(newFlagSet("history"), args, 0); err != nil {
				return nil, err
			}
			return c.GetRedeemHistory(ctx)
		},
	},
	"wish": {
		usage: "<text...>",
		run: func(ctx context.Context, c *apiclient.Client, args []string) (any, error) {
			fs := newFlagSet("wish")
			if err := fs.Parse(args); err != nil {
				return nil, usagef("%v", err)
			}
			content := strings.TrimSpace(strings.Join(fs.Args(), " "))
			if content == "" {
				return nil, usagef("wish text is required")
			}
			return c.CreateWish(ctx, models.CreateWishRequest{Content: content})
		},
	},
	"wishes": {
		usage: "[-page n] [-limit n]",
		run: func(ctx context.Context, c *apiclient.Client, args []string) (any, error) {
			page, limit, err := pageFlags("wishes", args)
			if err != nil {
				return nil, err
			}
			return c.GetWishes(ctx, page, limit)
		},
	},
	"stats": {
		usage: "",
		run: func(ctx context.Context, c *apiclient.Client, args []string) (any, error) {
			if err := parse(newFlagSet("stats"), args, 0); err != nil {
				return nil, err
			}
			return c.GetAdminStats(ctx)
		},
	},
	"redeem-logs": {
		usage: "[-page n] [-limit n] [-status pending|approved|completed|rejected]",
		run: func(ctx context.Context, c *apiclient.Client, args []string) (any, error) {
			fs := newFlagSet("redeem-logs")
			page := fs.Int("page", 0, "page number")
			limit := fs.Int("limit", 0, "page size")
			status := fs.String("status", "", "filter by status")
			if err := parse(fs, args, 0); err != nil {
				return nil, err
			}
			if *status != "" && !models.ValidRedeemStatus(*status) {
				return nil, usagef("unknown status %q", *status)
			}
			return c.GetRedeemLogs(ctx, *page, *limit, *status)
		},
	},
	"set-status": {
		usage: "<redeem-id> <approved|completed|rejected>",
		run: func(ctx context.Context, c *apiclient.Client, args []string) (any, error) {
			fs := newFlagSet("set-status")
			if err := parse(fs, args, 2); err != nil {
				return nil, err
			}
			if !models.ValidRedeemStatus(fs.Arg(1)) {
				return nil, usagef("unknown status %q", fs.Arg(1))
			}
			return c.UpdateRedeemStatus(ctx, fs.Arg(0), fs.Arg(1))
		},
	},
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parse parses args and requires exactly nargs positional arguments.
func parse(fs *flag.FlagSet, args []string, nargs int) error {
	if err := fs.Parse(args); err != nil {
		return usagef("%v", err)
	}
	if fs.NArg() != nargs {
		return usagef("expected %d argument(s), got %d", nargs, fs.NArg())
	}
	return nil
}

func pageFlags(name string, args []string) (int, int, error) {
	fs := newFlagSet(name)
	page := fs.Int("page", 0, "page number")
	limit := fs.Int("limit", 0, "page size")
	if err := parse(fs, args, 0); err != nil {
		return 0, 0, err
	}
	return *page, *limit, nil
}

func byID[T any](name string, fn func(*apiclient.Client, context.Context, string) (T, error)) command {
	return command{
		usage: "<post-id>",
		run: func(ctx context.Context, c *apiclient.Client, args []string) (any, error) {
			fs := newFlagSet(name)
			if err := parse(fs, args, 1); err != nil {
				return nil, err
			}
			return fn(c, ctx, fs.Arg(0))
		},
	}
}
