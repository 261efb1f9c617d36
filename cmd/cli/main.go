// Command ak is a CLI client for the assetkeeper service.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"
)

func usage() {
	fmt.Fprintf(os.Stderr, `ak CLI
Usage:
  ak -addr URL -actor NAME <cmd> [args]

Commands:
  version
  list         [-serial SN]
  get          -tag TAG
  history      -tag TAG
  create       -serial SN -name NAME [-description D] [-brand B] [-model M]
               [-type T] [-dept D] [-cost C] [-purchased YYYY-MM-DD] [-source S]
  update       -tag TAG -json '{"field": "value", ...}'
  checkout     -tag TAG -user UUID -note NOTE [-site UUID] [-location UUID] [-dept D]
  checkin      -tag TAG -note NOTE [-site UUID] [-location UUID] [-dept D]
  reserve      -tag TAG -from YYYY-MM-DD -until YYYY-MM-DD -note NOTE
               [-user UUID | -site UUID -location UUID]
  dispose      -tag TAG -note NOTE
  lost         -tag TAG -note NOTE
  repair       -tag TAG -note NOTE [-repaired]
  status       -tag TAG -status STATUS [-note NOTE] [-from D] [-until D] [-repaired]
  reset        -tag TAG [-note NOTE]
  rm           -tag TAG
  add-user     -username U [-name FULLNAME]
  add-site     -name NAME
  add-location -site UUID -name NAME
`)
	os.Exit(2)
}

var (
	version   = "dev"
	buildDate = "unknown"
)

// main dispatches subcommands against the JSON API.
func main() {
	addr := flag.String("addr", envOr("AK_ADDR", "http://localhost:8080"), "server base URL")
	actor := flag.String("actor", os.Getenv("AK_ACTOR"), "acting user for audit attribution")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	cmd := flag.Arg(0)
	args := flag.Args()[1:]

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cli := newClient(*addr, *actor)

	switch cmd {

	case "version":
		fmt.Printf("ak %s (%s)\n", version, buildDate)

	case "list":
		fs := flag.NewFlagSet("list", flag.ExitOnError)
		serial := fs.String("serial", "", "serial number lookup")
		_ = fs.Parse(args)

		path := "/api/v1/assets"
		if *serial != "" {
			path += "?serial=" + url.QueryEscape(*serial)
		}
		var out []map[string]any
		if err := cli.get(ctx, path, &out); err != nil {
			fail(err)
		}
		printJSON(out)

	case "get":
		fs := flag.NewFlagSet("get", flag.ExitOnError)
		tag := fs.String("tag", "", "asset tag")
		_ = fs.Parse(args)
		requireFlags(map[string]string{"-tag": *tag})

		var out map[string]any
		if err := cli.get(ctx, "/api/v1/assets/"+*tag, &out); err != nil {
			fail(err)
		}
		printJSON(out)

	case "history":
		fs := flag.NewFlagSet("history", flag.ExitOnError)
		tag := fs.String("tag", "", "asset tag")
		_ = fs.Parse(args)
		requireFlags(map[string]string{"-tag": *tag})

		var out []map[string]any
		if err := cli.get(ctx, "/api/v1/assets/"+*tag+"/history", &out); err != nil {
			fail(err)
		}
		printJSON(out)

	case "create":
		fs := flag.NewFlagSet("create", flag.ExitOnError)
		serial := fs.String("serial", "", "serial number")
		name := fs.String("name", "", "asset name")
		description := fs.String("description", "", "description")
		brand := fs.String("brand", "", "brand")
		mdl := fs.String("model", "", "model")
		typ := fs.String("type", "", "type")
		dept := fs.String("dept", "", "department")
		cost := fs.String("cost", "", "cost")
		purchased := fs.String("purchased", "", "purchase date YYYY-MM-DD")
		source := fs.String("source", "", "purchase source")
		_ = fs.Parse(args)
		requireFlags(map[string]string{"-serial": *serial, "-name": *name})

		var out map[string]any
		err := cli.post(ctx, "/api/v1/assets", body(map[string]any{
			"serial_number": *serial, "name": *name, "description": *description,
			"brand": *brand, "model": *mdl, "type": *typ, "department": *dept,
			"cost": *cost, "purchase_date": *purchased, "purchase_source": *source,
		}), &out)
		if err != nil {
			fail(err)
		}
		printJSON(out)

	case "update":
		fs := flag.NewFlagSet("update", flag.ExitOnError)
		tag := fs.String("tag", "", "asset tag")
		raw := fs.String("json", "", "partial update as JSON object")
		_ = fs.Parse(args)
		requireFlags(map[string]string{"-tag": *tag, "-json": *raw})

		var patch map[string]any
		if err := json.Unmarshal([]byte(*raw), &patch); err != nil {
			fail(fmt.Errorf("bad -json: %w", err))
		}
		var out map[string]any
		if err := cli.do(ctx, http.MethodPatch, "/api/v1/assets/"+*tag, patch, &out); err != nil {
			fail(err)
		}
		printJSON(out)

	case "checkout":
		fs := flag.NewFlagSet("checkout", flag.ExitOnError)
		tag := fs.String("tag", "", "asset tag")
		user := fs.String("user", "", "user id")
		site := fs.String("site", "", "site id")
		location := fs.String("location", "", "location id")
		dept := fs.String("dept", "", "department")
		note := fs.String("note", "", "status note")
		_ = fs.Parse(args)
		requireFlags(map[string]string{"-tag": *tag, "-user": *user, "-note": *note})

		var out map[string]any
		err := cli.post(ctx, "/api/v1/assets/"+*tag+"/checkout", body(map[string]any{
			"user_id": *user, "site_id": *site, "location_id": *location,
			"department": *dept, "note": *note,
		}), &out)
		if err != nil {
			fail(err)
		}
		printJSON(out)

	case "checkin":
		fs := flag.NewFlagSet("checkin", flag.ExitOnError)
		tag := fs.String("tag", "", "asset tag")
		site := fs.String("site", "", "site id")
		location := fs.String("location", "", "location id")
		dept := fs.String("dept", "", "department")
		note := fs.String("note", "", "status note")
		_ = fs.Parse(args)
		requireFlags(map[string]string{"-tag": *tag, "-note": *note})

		var out map[string]any
		err := cli.post(ctx, "/api/v1/assets/"+*tag+"/checkin", body(map[string]any{
			"site_id": *site, "location_id": *location, "department": *dept, "note": *note,
		}), &out)
		if err != nil {
			fail(err)
		}
		printJSON(out)

	case "reserve":
		fs := flag.NewFlagSet("reserve", flag.ExitOnError)
		tag := fs.String("tag", "", "asset tag")
		user := fs.String("user", "", "user id")
		site := fs.String("site", "", "site id")
		location := fs.String("location", "", "location id")
		from := fs.String("from", "", "reservation start YYYY-MM-DD")
		until := fs.String("until", "", "reservation end YYYY-MM-DD")
		note := fs.String("note", "", "status note")
		_ = fs.Parse(args)
		requireFlags(map[string]string{"-tag": *tag, "-from": *from, "-until": *until, "-note": *note})

		var out map[string]any
		err := cli.post(ctx, "/api/v1/assets/"+*tag+"/reserve", body(map[string]any{
			"user_id": *user, "site_id": *site, "location_id": *location,
			"from": *from, "until": *until, "note": *note,
		}), &out)
		if err != nil {
			fail(err)
		}
		printJSON(out)

	case "dispose", "lost":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		tag := fs.String("tag", "", "asset tag")
		note := fs.String("note", "", "status note")
		_ = fs.Parse(args)
		requireFlags(map[string]string{"-tag": *tag, "-note": *note})

		var out map[string]any
		if err := cli.post(ctx, "/api/v1/assets/"+*tag+"/"+cmd, body(map[string]any{"note": *note}), &out); err != nil {
			fail(err)
		}
		printJSON(out)

	case "repair":
		fs := flag.NewFlagSet("repair", flag.ExitOnError)
		tag := fs.String("tag", "", "asset tag")
		note := fs.String("note", "", "status note")
		repaired := fs.Bool("repaired", false, "mark repair as finished")
		_ = fs.Parse(args)
		requireFlags(map[string]string{"-tag": *tag, "-note": *note})

		var out map[string]any
		err := cli.post(ctx, "/api/v1/assets/"+*tag+"/repair", map[string]any{
			"note": *note, "mark_as_repaired": *repaired,
		}, &out)
		if err != nil {
			fail(err)
		}
		printJSON(out)

	case "status":
		fs := flag.NewFlagSet("status", flag.ExitOnError)
		tag := fs.String("tag", "", "asset tag")
		st := fs.String("status", "", "target status")
		note := fs.String("note", "", "status note")
		from := fs.String("from", "", "reservation start YYYY-MM-DD")
		until := fs.String("until", "", "reservation end YYYY-MM-DD")
		repaired := fs.Bool("repaired", false, "mark repair as finished")
		_ = fs.Parse(args)
		requireFlags(map[string]string{"-tag": *tag, "-status": *st})

		payload := body(map[string]any{
			"status": *st, "note": *note, "from": *from, "until": *until,
		})
		payload["mark_as_repaired"] = *repaired
		var out map[string]any
		if err := cli.post(ctx, "/api/v1/assets/"+*tag+"/status", payload, &out); err != nil {
			fail(err)
		}
		printJSON(out)

	case "reset":
		fs := flag.NewFlagSet("reset", flag.ExitOnError)
		tag := fs.String("tag", "", "asset tag")
		note := fs.String("note", "", "status note")
		_ = fs.Parse(args)
		requireFlags(map[string]string{"-tag": *tag})

		var out map[string]any
		if err := cli.post(ctx, "/api/v1/assets/"+*tag+"/reset", body(map[string]any{"note": *note}), &out); err != nil {
			fail(err)
		}
		printJSON(out)

	case "rm":
		fs := flag.NewFlagSet("rm", flag.ExitOnError)
		tag := fs.String("tag", "", "asset tag")
		_ = fs.Parse(args)
		requireFlags(map[string]string{"-tag": *tag})

		var out map[string]any
		if err := cli.do(ctx, http.MethodDelete, "/api/v1/assets/"+*tag, nil, &out); err != nil {
			fail(err)
		}
		printJSON(out)

	case "add-user":
		fs := flag.NewFlagSet("add-user", flag.ExitOnError)
		username := fs.String("username", "", "username")
		name := fs.String("name", "", "full name")
		_ = fs.Parse(args)
		requireFlags(map[string]string{"-username": *username})

		var out map[string]any
		if err := cli.post(ctx, "/api/v1/users", body(map[string]any{"username": *username, "full_name": *name}), &out); err != nil {
			fail(err)
		}
		printJSON(out)

	case "add-site":
		fs := flag.NewFlagSet("add-site", flag.ExitOnError)
		name := fs.String("name", "", "site name")
		_ = fs.Parse(args)
		requireFlags(map[string]string{"-name": *name})

		var out map[string]any
		if err := cli.post(ctx, "/api/v1/sites", map[string]any{"name": *name}, &out); err != nil {
			fail(err)
		}
		printJSON(out)

	case "add-location":
		fs := flag.NewFlagSet("add-location", flag.ExitOnError)
		site := fs.String("site", "", "site id")
		name := fs.String("name", "", "location name")
		_ = fs.Parse(args)
		requireFlags(map[string]string{"-site": *site, "-name": *name})

		var out map[string]any
		if err := cli.post(ctx, "/api/v1/locations", map[string]any{"site_id": *site, "name": *name}, &out); err != nil {
			fail(err)
		}
		printJSON(out)

	default:
		usage()
	}
}

// ---- helpers ----

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireFlags(kv map[string]string) {
	for name, v := range kv {
		if v == "" {
			fmt.Fprintf(os.Stderr, "need %s\n", name)
			os.Exit(1)
		}
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
