package core

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"

	handler "geotrackd/module/core/internal/handler/http"
	"geotrackd/module/core/internal/handler/subscriber"
	"geotrackd/module/core/internal/repository/database"
	"geotrackd/module/core/internal/repository/database/memory"
	"geotrackd/module/core/internal/repository/database/sqlstore"
	"geotrackd/module/core/internal/repository/publisher"
	"geotrackd/module/core/internal/repository/publisher/rabbitmq"
	"geotrackd/module/core/service"
)

type Module struct {
	LocationSvc *service.LocationService
	GeofenceSvc *service.GeofenceService
	ZoneSvc     *service.ZoneService
	AdminSvc    *service.AdminService

	locationHandler *handler.LocationHandler
	geofenceHandler *handler.GeofenceHandler
	userHandler     *handler.UserHandler
	activityHandler *handler.ActivityHandler
	subscriber      *subscriber.LocationSubscriber
}

// Build wires the core module. A nil db selects the seeded in-memory demo
// store; nil broker connections disable the corresponding transport.
func Build(ctx context.Context, db *sql.DB, driver string, amqpConn *amqp.Connection, mqttClient mqtt.Client, logger *slog.Logger) (*Module, error) {
	var (
		users      database.UserRepository
		devices    database.DeviceRepository
		zones      database.ZoneRepository
		positions  database.PositionRepository
		events     database.EventRepository
		activities database.ActivityRepository
	)

	if db == nil {
		store := memory.NewStore(true)
		users = store.Users()
		devices = store.Devices()
		zones = store.Zones()
		positions = store.Positions()
		events = store.Events()
		activities = store.Activities()
	} else {
		if err := sqlstore.InitSchema(ctx, db, driver); err != nil {
			return nil, fmt.Errorf("init schema: %w", err)
		}
		users = sqlstore.NewUserRepo(db, driver)
		devices = sqlstore.NewDeviceRepo(db, driver)
		zones = sqlstore.NewZoneRepo(db, driver)
		positions = sqlstore.NewPositionRepo(db, driver)
		events = sqlstore.NewEventRepo(db, driver)
		activities = sqlstore.NewActivityRepo(db, driver)
	}

	var alertPub publisher.AlertPublisher
	if amqpConn != nil {
		p, err := rabbitmq.NewAlertPublisher(amqpConn)
		if err != nil {
			return nil, fmt.Errorf("alert publisher: %w", err)
		}
		alertPub = p
	}

	geofenceSvc := service.NewGeofenceService(zones, events, activities, alertPub, logger)
	locationSvc := service.NewLocationService(positions, users, devices, geofenceSvc, logger)
	zoneSvc := service.NewZoneService(zones)
	adminSvc := service.NewAdminService(users, devices, zones, events, positions, activities)

	var sub *subscriber.LocationSubscriber
	if mqttClient != nil {
		sub = subscriber.NewLocationSubscriber(mqttClient, locationSvc, logger)
	}

	return &Module{
		LocationSvc:     locationSvc,
		GeofenceSvc:     geofenceSvc,
		ZoneSvc:         zoneSvc,
		AdminSvc:        adminSvc,
		locationHandler: handler.NewLocationHandler(locationSvc),
		geofenceHandler: handler.NewGeofenceHandler(zoneSvc),
		userHandler:     handler.NewUserHandler(adminSvc),
		activityHandler: handler.NewActivityHandler(adminSvc),
		subscriber:      sub,
	}, nil
}

func (m *Module) RegisterRoutes(r *gin.RouterGroup) {
	m.locationHandler.Register(r)
	m.geofenceHandler.Register(r)
	m.userHandler.Register(r)
	m.activityHandler.Register(r)
}

func (m *Module) StartSubscribers() error {
	if m.subscriber == nil {
		return nil
	}
	return m.subscriber.Start()
}
