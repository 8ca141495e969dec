// Command bazaarx is a CLI storefront client for the bazaarX backend.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/gmzseverr/bazaarx-client/internal/api"
	"github.com/gmzseverr/bazaarx-client/internal/cart"
	"github.com/gmzseverr/bazaarx-client/internal/checkout"
	"github.com/gmzseverr/bazaarx-client/internal/config"
	"github.com/gmzseverr/bazaarx-client/internal/errs"
	"github.com/gmzseverr/bazaarx-client/internal/favorites"
	"github.com/gmzseverr/bazaarx-client/internal/model"
	"github.com/gmzseverr/bazaarx-client/internal/session"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func usage() {
	fmt.Fprintf(os.Stderr, `bazaarx CLI
Usage:
  bazaarx [-api URL] [-state-dir DIR] <cmd> [args]

Commands:
  version
  register    -name <full name> -email <email> -p <password>
  login       -email <email> -p <password>        (saves session)
  logout
  whoami
  catalog
  product     -id <product id>
  cart                                            (list + summary)
  cart-add    -id <product id>
  cart-rm     -id <product id>
  cart-clear
  cart-count
  favorites
  like        -id <product id>                    (toggle)
  addresses
  add-address -file <json|->
  payments
  add-payment -file <json|->
  orders
  checkout    [-address <id>] [-payment <id>]     (defaults to first of each)
`)
	os.Exit(2)
}

// ---- utils ----

func fail(err error) {
	switch {
	case errors.Is(err, errs.ErrUnauthenticated):
		fmt.Fprintln(os.Stderr, "you are not logged in; run: bazaarx login -email ... -p ...")
	case errors.Is(err, errs.ErrUnauthorized):
		fmt.Fprintln(os.Stderr, "your session has expired; please log in again")
	default:
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	os.Exit(1)
}

func readAll(p string) ([]byte, error) {
	if p == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(p)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func newLogger(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if lvl, err := zap.ParseAtomicLevel(level); err == nil {
		cfg.Level = lvl
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// app bundles the wired client so subcommands stay short.
type app struct {
	sess      *session.Store
	client    *api.Client
	cart      *cart.Service
	favorites *favorites.Service
	log       *zap.Logger
}

// main dispatches subcommands over the wired session, gateway and services.
func main() {
	cfg, err := config.Parse()
	if err != nil {
		fail(err)
	}

	logger := newLogger(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	storage, err := session.NewFileStorage(cfg.StateDir)
	if err != nil {
		fail(err)
	}
	sess := session.NewStore(storage, logger)
	sess.Restore()

	client := api.NewClient(cfg.APIBaseURL, sess, logger,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithUnauthorizedHook(sess.Invalidate),
	)

	cartSvc := cart.NewService(client, sess, logger)
	favSvc := favorites.NewService(client, sess, logger)
	sess.Subscribe(func(_ model.Session, authed bool) {
		if !authed {
			cartSvc.Reset()
			favSvc.Reset()
		}
	})

	a := &app{sess: sess, client: client, cart: cartSvc, favorites: favSvc, log: logger}

	if flag.NArg() < 1 {
		usage()
	}
	cmd := flag.Arg(0)
	args := flag.Args()[1:]

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch cmd {

	case "version":
		fmt.Printf("bazaarx %s (%s)\n", version, buildDate)

	case "register":
		fs := flag.NewFlagSet("register", flag.ExitOnError)
		name := fs.String("name", "", "full name")
		email := fs.String("email", "", "email")
		p := fs.String("p", "", "password")
		_ = fs.Parse(args)
		if *name == "" || *email == "" || *p == "" {
			fmt.Fprintln(os.Stderr, "need -name, -email and -p")
			os.Exit(1)
		}
		msg, err := a.client.Register(ctx, *name, *email, *p)
		if err != nil {
			fail(err)
		}
		if msg == "" {
			msg = "registration successful, please log in"
		}
		fmt.Println(msg)

	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		email := fs.String("email", "", "email")
		p := fs.String("p", "", "password")
		_ = fs.Parse(args)
		if *email == "" || *p == "" {
			fmt.Fprintln(os.Stderr, "need -email and -p")
			os.Exit(1)
		}
		u, token, err := a.client.Login(ctx, *email, *p)
		if err != nil {
			fail(err)
		}
		if err := a.sess.Login(u, token); err != nil {
			fail(err)
		}
		fmt.Printf("welcome, %s\n", u.FullName)

	case "logout":
		a.sess.Logout()
		fmt.Println("logged out")

	case "whoami":
		s, ok := a.sess.Current()
		if !ok {
			fmt.Println("anonymous")
			return
		}
		printJSON(s.User)

	case "catalog":
		items, err := a.client.Products(ctx)
		if err != nil {
			fail(err)
		}
		renderProducts(os.Stdout, items)

	case "product":
		fs := flag.NewFlagSet("product", flag.ExitOnError)
		id := fs.Int64("id", 0, "product id")
		_ = fs.Parse(args)
		if *id == 0 {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}
		p, err := a.client.ProductByID(ctx, *id)
		if err != nil {
			fail(err)
		}
		liked, _ := a.favorites.Status(ctx, *id)
		renderProduct(os.Stdout, p, liked)

	case "cart":
		if err := a.cart.Refresh(ctx); err != nil {
			fail(err)
		}
		renderCart(os.Stdout, a.cart.Items(), a.cart.Summary())

	case "cart-add":
		fs := flag.NewFlagSet("cart-add", flag.ExitOnError)
		id := fs.Int64("id", 0, "product id")
		_ = fs.Parse(args)
		if *id == 0 {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}
		added, err := a.cart.Add(ctx, *id)
		if err != nil {
			fail(err)
		}
		if added {
			fmt.Println("added to cart")
		} else {
			fmt.Println("already in your cart")
		}

	case "cart-rm":
		fs := flag.NewFlagSet("cart-rm", flag.ExitOnError)
		id := fs.Int64("id", 0, "product id")
		_ = fs.Parse(args)
		if *id == 0 {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}
		if err := a.cart.Remove(ctx, *id); err != nil {
			fail(err)
		}
		fmt.Println("removed from cart")

	case "cart-clear":
		if err := a.cart.Clear(ctx); err != nil {
			fail(err)
		}
		fmt.Println("cart cleared")

	case "cart-count":
		if err := a.cart.RefreshCount(ctx); err != nil {
			fail(err)
		}
		fmt.Println(a.cart.Count())

	case "favorites":
		if err := a.favorites.Refresh(ctx); err != nil {
			fail(err)
		}
		renderProducts(os.Stdout, a.favorites.Items())

	case "like":
		fs := flag.NewFlagSet("like", flag.ExitOnError)
		id := fs.Int64("id", 0, "product id")
		_ = fs.Parse(args)
		if *id == 0 {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}
		liked, err := a.favorites.Toggle(ctx, *id)
		if err != nil {
			fail(err)
		}
		if liked {
			fmt.Println("added to favorites")
		} else {
			fmt.Println("removed from favorites")
		}

	case "addresses":
		out, err := a.client.Addresses(ctx)
		if err != nil {
			fail(err)
		}
		printJSON(out)

	case "add-address":
		fs := flag.NewFlagSet("add-address", flag.ExitOnError)
		file := fs.String("file", "", "JSON file with the address ('-' for stdin)")
		_ = fs.Parse(args)
		if *file == "" {
			fmt.Fprintln(os.Stderr, "need -file")
			os.Exit(1)
		}
		raw, err := readAll(*file)
		if err != nil {
			fail(err)
		}
		var na model.NewAddress
		if err := json.Unmarshal(raw, &na); err != nil {
			fail(fmt.Errorf("parse address: %w", err))
		}
		out, err := a.client.CreateAddress(ctx, na)
		if err != nil {
			fail(err)
		}
		printJSON(out)

	case "payments":
		out, err := a.client.Payments(ctx)
		if err != nil {
			fail(err)
		}
		printJSON(out)

	case "add-payment":
		fs := flag.NewFlagSet("add-payment", flag.ExitOnError)
		file := fs.String("file", "", "JSON file with the card ('-' for stdin)")
		_ = fs.Parse(args)
		if *file == "" {
			fmt.Fprintln(os.Stderr, "need -file")
			os.Exit(1)
		}
		raw, err := readAll(*file)
		if err != nil {
			fail(err)
		}
		var np model.NewPayment
		if err := json.Unmarshal(raw, &np); err != nil {
			fail(fmt.Errorf("parse payment method: %w", err))
		}
		out, err := a.client.CreatePayment(ctx, np)
		if err != nil {
			fail(err)
		}
		printJSON(out)

	case "orders":
		out, err := a.client.Orders(ctx)
		if err != nil {
			fail(err)
		}
		printJSON(out)

	case "checkout":
		fs := flag.NewFlagSet("checkout", flag.ExitOnError)
		addrID := fs.Int64("address", 0, "shipping address id (default: first saved)")
		payID := fs.Int64("payment", 0, "payment method id (default: first saved)")
		_ = fs.Parse(args)
		runCheckout(ctx, a, *addrID, *payID)

	default:
		usage()
	}
}

// runCheckout drives the orchestrator end to end for a non-interactive submit.
func runCheckout(ctx context.Context, a *app, addrID, payID int64) {
	orch := checkout.New(a.client, a.cart, a.sess, a.log)

	if err := orch.Load(ctx); err != nil {
		fail(err)
	}
	if orch.State() == checkout.StateEmptyCart {
		fmt.Println("your cart is empty; add something first")
		return
	}

	if addrID != 0 {
		if err := orch.SelectAddress(addrID); err != nil {
			fail(err)
		}
	}
	if payID != 0 {
		if err := orch.SelectPayment(payID); err != nil {
			fail(err)
		}
	}

	summary, err := orch.PlaceOrder(ctx)
	if err != nil {
		if msg := orch.FailureMessage(); orch.State() == checkout.StateFailed && msg != "" {
			fmt.Fprintln(os.Stderr, msg)
			os.Exit(1)
		}
		fail(err)
	}
	renderOrderSummary(os.Stdout, summary)
}
