package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"farmavisitas/internal/database"
	"farmavisitas/internal/domain"
	"farmavisitas/internal/repository"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "farmavisitas.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (children first)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM venta_items")
	db.Exec("DELETE FROM ventas")
	db.Exec("DELETE FROM visitas")
	db.Exec("DELETE FROM citas")
	db.Exec("DELETE FROM planificaciones")
	db.Exec("DELETE FROM sync_status")
	db.Exec("DELETE FROM medicamentos")
	db.Exec("DELETE FROM clientes")
	db.Exec("DELETE FROM users")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(db)
	clientRepo := repository.NewClientRepository(db)
	medicineRepo := repository.NewMedicineRepository(db)
	planRepo := repository.NewPlanRepository(db)

	// ================== USERS ==================
	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Email:        "admin@farmavisitas.gt",
		PasswordHash: string(adminHash),
		Nombre:       "Administrador",
		Role:         domain.RoleAdmin,
	}
	if err := userRepo.Create(ctx, &admin); err != nil {
		log.Fatal("Seed admin failed:", err)
	}
	log.Println("Admin created: admin@farmavisitas.gt / admin123")

	repHash, _ := bcrypt.GenerateFromPassword([]byte("visita123"), bcrypt.DefaultCost)
	rep := domain.User{
		Email:        "visitador@farmavisitas.gt",
		PasswordHash: string(repHash),
		Nombre:       "Carlos Visitador",
		Role:         domain.RoleRep,
	}
	if err := userRepo.Create(ctx, &rep); err != nil {
		log.Fatal("Seed rep failed:", err)
	}
	log.Println("Rep created: visitador@farmavisitas.gt / visita123")

	// ================== CLIENTES ==================
	log.Println("Creating clients...")

	clients := []domain.Client{
		{
			ID:           "CL-001",
			Colegiado:    "12845",
			Especialidad: "Pediatría",
			Nombre:       "María",
			Apellido:     "González",
			Direccion:    "6a Avenida 3-45 Zona 1",
			Municipio:    "Quetzaltenango",
			Departamento: "Quetzaltenango",
			Telefono:     "7761-2233",
			Activo:       true,
		},
		{
			ID:           "CL-002",
			Colegiado:    "9921",
			Especialidad: "Medicina General",
			Nombre:       "Jorge",
			Apellido:     "Ramírez",
			Direccion:    "4a Calle 8-12 Zona 3",
			Municipio:    "Totonicapán",
			Departamento: "Totonicapán",
			Telefono:     "7766-8844",
			Activo:       true,
		},
		{
			ID:           "CL-003",
			Especialidad: "Farmacia",
			Nombre:       "Farmacia",
			Apellido:     "La Bendición",
			Direccion:    "Calle Real 2-10",
			Municipio:    "Salcajá",
			Departamento: "Quetzaltenango",
			Telefono:     "7768-1020",
			Activo:       true,
		},
		{
			ID:           "CL-004",
			Colegiado:    "15302",
			Especialidad: "Ginecología",
			Nombre:       "Ana",
			Apellido:     "Castillo",
			Direccion:    "Diagonal 12 5-67 Zona 5",
			Municipio:    "Quetzaltenango",
			Departamento: "Quetzaltenango",
			Telefono:     "7763-5511",
			Activo:       false,
		},
	}
	for i := range clients {
		if err := clientRepo.Create(ctx, &clients[i]); err != nil {
			log.Fatal("Seed client failed:", err)
		}
	}
	log.Printf("%d clients created", len(clients))

	// ================== MEDICAMENTOS ==================
	log.Println("Creating medicines...")

	medicines := []domain.Medicine{
		{
			ID:                "MED-001",
			Nombre:            "Amoxicilina 500mg",
			Presentacion:      "Caja 30 cápsulas",
			PrecioPublico:     95.00,
			PrecioFarmacia:    62.50,
			PrecioMedico:      70.00,
			Bonificacion2a9:   "10+1",
			Bonificacion10Mas: "10+2",
			Stock:             140,
		},
		{
			ID:                "MED-002",
			Nombre:            "Ibuprofeno 400mg",
			Presentacion:      "Caja 20 tabletas",
			PrecioPublico:     48.00,
			PrecioFarmacia:    30.00,
			PrecioMedico:      35.00,
			Bonificacion2a9:   "12+1",
			Bonificacion10Mas: "12+3",
			Stock:             200,
			Oferta:            true,
			DescripcionOferta: "Descuento de temporada en compras mayoristas",
		},
		{
			ID:             "MED-003",
			Nombre:         "Loratadina 10mg",
			Presentacion:   "Caja 10 tabletas",
			PrecioPublico:  35.00,
			PrecioFarmacia: 22.00,
			PrecioMedico:   26.00,
			Stock:          80,
		},
		{
			ID:                "MED-004",
			Nombre:            "Suero Oral Sabor Fresa",
			Presentacion:      "Caja 12 sobres",
			PrecioPublico:     60.00,
			PrecioFarmacia:    41.00,
			PrecioMedico:      45.00,
			Bonificacion10Mas: "6+1",
			Stock:             55,
		},
	}
	for i := range medicines {
		if err := medicineRepo.Create(ctx, &medicines[i]); err != nil {
			log.Fatal("Seed medicine failed:", err)
		}
	}
	log.Printf("%d medicines created", len(medicines))

	// ================== PLANIFICACIONES ==================
	log.Println("Creating plan entries...")

	plans := []domain.PlanEntry{
		{
			Gira:         "Gira Occidente",
			Dia:          2,
			Mes:          9,
			Anio:         2026,
			Horario:      "09:00",
			Direccion:    "6a Avenida 3-45 Zona 1",
			NombreMedico: "María González",
			ClienteID:    "CL-001",
		},
		{
			Gira:         "Gira Occidente",
			Dia:          2,
			Mes:          9,
			Anio:         2026,
			Horario:      "11:30",
			Direccion:    "Calle Real 2-10",
			NombreMedico: "Farmacia La Bendición",
			ClienteID:    "CL-003",
		},
		{
			Gira:         "Gira Occidente",
			Dia:          3,
			Mes:          9,
			Anio:         2026,
			Horario:      "10:00",
			Direccion:    "4a Calle 8-12 Zona 3",
			NombreMedico: "Jorge Ramírez",
		},
	}
	for i := range plans {
		plans[i].ID = fmt.Sprintf("PL-%03d", i+1)
		if err := planRepo.Create(ctx, &plans[i]); err != nil {
			log.Fatal("Seed plan failed:", err)
		}
	}
	log.Printf("%d plan entries created", len(plans))

	log.Println("Seed complete")
}
