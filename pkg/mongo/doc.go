// Package mongo provides MongoDB connection management with
// environment-driven configuration, startup retry logic and a health
// check probe for orchestration.
//
//	var cfg mongo.Config
//	config.MustLoad(&cfg)
//
//	db, err := mongo.NewWithDatabase(ctx, cfg, cfg.Database)
//	if err != nil {
//		log.Fatal(err)
//	}
package mongo
