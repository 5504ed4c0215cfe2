package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"

	"gitlab.com/open-soft/go-coin-jumper/src/config"
)

const (
	bridgeScoutIntervalSeconds = 60
	valueUpdateIntervalSeconds = 60
	pruneIntervalSeconds       = 3600
)

func main() {
	pwd, _ := os.Getwd()
	if _, err := os.Stat(fmt.Sprintf("%s/.env", pwd)); err == nil {
		log.Println(".env is found, loading variables...")
		err = godotenv.Load()
		if err != nil {
			log.Println(err)
		}
	}

	container := config.InitServiceContainer()
	defer container.Db.Close()

	container.StreamProcessor.Start()

	err := container.Strategy.Initialize()
	if err != nil {
		log.Fatal(fmt.Sprintf("Strategy initialization failed: %s", err.Error()))
	}

	container.StartHttpServer()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	log.Printf(
		"[%s] scouting every %d seconds, bridge is %s",
		container.CurrentBot.BotUuid,
		container.BotConfig.ScoutSleepTime,
		container.BotConfig.BridgeSymbol,
	)

	// Every periodic job runs on this single loop, one tick at a time. A
	// bridge recovery or value snapshot never interleaves with a running
	// jump.
	var sinceBridgeScout, sinceValueUpdate, sincePrune int64

	for {
		select {
		case sig := <-sigs:
			log.Printf("%s received, shutting down...", sig)
			container.StreamProcessor.Stop()

			return
		default:
		}

		container.Strategy.Scout()

		if sinceBridgeScout >= bridgeScoutIntervalSeconds {
			sinceBridgeScout = 0
			container.Strategy.BridgeScout()
		}

		if sinceValueUpdate >= valueUpdateIntervalSeconds {
			sinceValueUpdate = 0
			container.ValueTracker.UpdateValues()
		}

		if sincePrune >= pruneIntervalSeconds {
			sincePrune = 0

			err := container.TradeRepository.PruneScoutHistory(container.BotConfig.ScoutHistoryPruneHours)
			if err != nil {
				log.Printf("scout history prune: %s", err.Error())
			}
		}

		container.TimeService.WaitSeconds(container.BotConfig.ScoutSleepTime)
		sinceBridgeScout += container.BotConfig.ScoutSleepTime
		sinceValueUpdate += container.BotConfig.ScoutSleepTime
		sincePrune += container.BotConfig.ScoutSleepTime
	}
}
