package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/coinblock/common"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug mode")
	watch := flag.Bool("watch", false, "reload prefabs and scripts from prefabs/ when they change")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	levelName := flag.String("level", "level1", "level name in levels/ (basename, .json optional)")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	w, h := ebiten.Monitor().Size()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("coinblock")
	ebiten.SetTPS(common.TPS)

	game, err := NewGame(*levelName, *debug, *watch)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
