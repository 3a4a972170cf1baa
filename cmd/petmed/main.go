package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"petmed-go/internal/app"
	"petmed-go/internal/config"
	"petmed-go/internal/petmed"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer a.Close().
// operation identifies the CLI command being run (e.g. "RegisterPet").
func newApp(operation string) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.New(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

func parseID(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s id %q", what, arg)
	}
	return id, nil
}

var rootCmd = &cobra.Command{
	Use:   "petmed",
	Short: "Pet medicine tracker and price comparison",
}

// config command

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		// Each install gets its own device ID.
		deviceID := uuid.New().String()

		cfg := config.NewConfig(deviceID, defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Device ID: %s\n", deviceID)
		fmt.Printf("Base Dir:  %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Device ID: %s\n", cfg.DeviceID)
		fmt.Printf("Base Dir:  %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:   %s\n", cfg.LogDir)
		fmt.Printf("Database:  %s (%s)\n", cfg.Database.Type, cfg.Database.DataDir)
		fmt.Printf("Catalog endpoints: %v\n", cfg.Catalog.CandidateList())
		fmt.Printf("Price endpoints:   %v\n", cfg.Prices.CandidateList())
		return nil
	},
}

// pet commands

var petCmd = &cobra.Command{
	Use:   "pet",
	Short: "Manage registered pets",
}

var petAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a pet",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		breed, _ := cmd.Flags().GetString("breed")
		age, _ := cmd.Flags().GetInt("age")
		pedigree, _ := cmd.Flags().GetBool("pedigree")
		animalType, _ := cmd.Flags().GetString("type")
		photo, _ := cmd.Flags().GetString("photo")

		a, err := newApp("RegisterPet")
		if err != nil {
			return err
		}
		defer a.Close()

		pet, err := a.Service().RegisterPet(petmed.Pet{
			Name:        name,
			Breed:       breed,
			Age:         age,
			HasPedigree: pedigree,
			AnimalType:  petmed.AnimalType(animalType),
			Photo:       photo,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Registered pet #%d: %s\n", pet.ID, pet.Name)
		return nil
	},
}

var petListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered pets",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ListPets")
		if err != nil {
			return err
		}
		defer a.Close()

		pets, err := a.Service().ListPets()
		if err != nil {
			return err
		}

		if len(pets) == 0 {
			fmt.Println("No pets registered.")
			return nil
		}

		for _, p := range pets {
			pedigree := ""
			if p.HasPedigree {
				pedigree = "  [pedigree]"
			}
			fmt.Printf("#%d  %-15s  %s, %s, %d year(s)%s\n",
				p.ID, p.Name, p.AnimalType, p.Breed, p.Age, pedigree)
		}
		return nil
	},
}

var petUpdateCmd = &cobra.Command{
	Use:   "update PET_ID",
	Short: "Update a pet's fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "pet")
		if err != nil {
			return err
		}

		var patch petmed.PetUpdate
		if cmd.Flags().Changed("name") {
			v, _ := cmd.Flags().GetString("name")
			patch.Name = &v
		}
		if cmd.Flags().Changed("breed") {
			v, _ := cmd.Flags().GetString("breed")
			patch.Breed = &v
		}
		if cmd.Flags().Changed("age") {
			v, _ := cmd.Flags().GetInt("age")
			patch.Age = &v
		}
		if cmd.Flags().Changed("pedigree") {
			v, _ := cmd.Flags().GetBool("pedigree")
			patch.HasPedigree = &v
		}
		if cmd.Flags().Changed("type") {
			v, _ := cmd.Flags().GetString("type")
			t := petmed.AnimalType(v)
			patch.AnimalType = &t
		}
		if cmd.Flags().Changed("photo") {
			v, _ := cmd.Flags().GetString("photo")
			patch.Photo = &v
		}

		a, err := newApp("UpdatePet")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Service().UpdatePet(id, patch); err != nil {
			return err
		}
		fmt.Printf("Updated pet #%d\n", id)
		return nil
	},
}

var petDeleteCmd = &cobra.Command{
	Use:   "delete PET_ID",
	Short: "Delete a pet and its medicine list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "pet")
		if err != nil {
			return err
		}

		a, err := newApp("DeletePet")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Service().DeletePet(id); err != nil {
			return err
		}
		fmt.Printf("Deleted pet #%d\n", id)
		return nil
	},
}

// store commands

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage partner stores",
}

var storeAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a partner store",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := petmed.Store{}
		s.Nome, _ = cmd.Flags().GetString("name")
		s.Endereco, _ = cmd.Flags().GetString("address")
		s.Telefone, _ = cmd.Flags().GetString("phone")
		s.Email, _ = cmd.Flags().GetString("email")
		s.CNPJ, _ = cmd.Flags().GetString("cnpj")
		s.Horario, _ = cmd.Flags().GetString("hours")
		if cmd.Flags().Changed("lat") {
			v, _ := cmd.Flags().GetFloat64("lat")
			s.Latitude = &v
		}
		if cmd.Flags().Changed("lon") {
			v, _ := cmd.Flags().GetFloat64("lon")
			s.Longitude = &v
		}

		a, err := newApp("AddStore")
		if err != nil {
			return err
		}
		defer a.Close()

		created, err := a.Service().AddStore(s)
		if err != nil {
			return err
		}
		fmt.Printf("Added store #%d: %s\n", created.ID, created.Nome)
		return nil
	},
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active partner stores",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ListStores")
		if err != nil {
			return err
		}
		defer a.Close()

		stores, err := a.Service().ListStores()
		if err != nil {
			return err
		}

		if len(stores) == 0 {
			fmt.Println("No active stores.")
			return nil
		}

		for _, s := range stores {
			fmt.Printf("#%d  %-20s  %s\n", s.ID, s.Nome, s.Endereco)
		}
		return nil
	},
}

var storeShowCmd = &cobra.Command{
	Use:   "show STORE_ID",
	Short: "Show a store, active or not",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "store")
		if err != nil {
			return err
		}

		a, err := newApp("ShowStore")
		if err != nil {
			return err
		}
		defer a.Close()

		s, err := a.Service().GetStore(id)
		if err != nil {
			return err
		}

		status := "active"
		if !s.Ativa {
			status = "deactivated"
		}
		fmt.Printf("Store #%d (%s)\n", s.ID, status)
		fmt.Printf("  Name:    %s\n", s.Nome)
		fmt.Printf("  Address: %s\n", s.Endereco)
		fmt.Printf("  Phone:   %s\n", s.Telefone)
		fmt.Printf("  Email:   %s\n", s.Email)
		fmt.Printf("  CNPJ:    %s\n", s.CNPJ)
		fmt.Printf("  Hours:   %s\n", s.Horario)
		if s.Latitude != nil && s.Longitude != nil {
			fmt.Printf("  Geo:     %f, %f\n", *s.Latitude, *s.Longitude)
		}
		return nil
	},
}

var storeUpdateCmd = &cobra.Command{
	Use:   "update STORE_ID",
	Short: "Update a store's fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "store")
		if err != nil {
			return err
		}

		var patch petmed.StoreUpdate
		if cmd.Flags().Changed("name") {
			v, _ := cmd.Flags().GetString("name")
			patch.Nome = &v
		}
		if cmd.Flags().Changed("address") {
			v, _ := cmd.Flags().GetString("address")
			patch.Endereco = &v
		}
		if cmd.Flags().Changed("phone") {
			v, _ := cmd.Flags().GetString("phone")
			patch.Telefone = &v
		}
		if cmd.Flags().Changed("email") {
			v, _ := cmd.Flags().GetString("email")
			patch.Email = &v
		}
		if cmd.Flags().Changed("cnpj") {
			v, _ := cmd.Flags().GetString("cnpj")
			patch.CNPJ = &v
		}
		if cmd.Flags().Changed("hours") {
			v, _ := cmd.Flags().GetString("hours")
			patch.Horario = &v
		}
		if cmd.Flags().Changed("lat") {
			v, _ := cmd.Flags().GetFloat64("lat")
			patch.Latitude = &v
		}
		if cmd.Flags().Changed("lon") {
			v, _ := cmd.Flags().GetFloat64("lon")
			patch.Longitude = &v
		}

		a, err := newApp("UpdateStore")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Service().UpdateStore(id, patch); err != nil {
			return err
		}
		fmt.Printf("Updated store #%d\n", id)
		return nil
	},
}

var storeDeactivateCmd = &cobra.Command{
	Use:   "deactivate STORE_ID",
	Short: "Deactivate a store, keeping its history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "store")
		if err != nil {
			return err
		}

		a, err := newApp("DeactivateStore")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Service().DeactivateStore(id); err != nil {
			return err
		}
		fmt.Printf("Deactivated store #%d\n", id)
		return nil
	},
}

// meds commands

var medsCmd = &cobra.Command{
	Use:   "meds",
	Short: "Manage a pet's medicine list",
}

var medsListCmd = &cobra.Command{
	Use:   "list PET_ID",
	Short: "List a pet's medicines",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "pet")
		if err != nil {
			return err
		}
		term, _ := cmd.Flags().GetString("search")

		a, err := newApp("ListPetMedicines")
		if err != nil {
			return err
		}
		defer a.Close()

		var pms []*petmed.PetMedicine
		if term != "" {
			pms, err = a.Service().SearchPetMedicines(id, term)
		} else {
			pms, err = a.Service().PetMedicines(id)
		}
		if err != nil {
			return err
		}

		if len(pms) == 0 {
			fmt.Println("No medicines.")
			return nil
		}

		for _, pm := range pms {
			med := petmed.DecodeDetails(pm)
			lab := ""
			if med.Laboratorio != "" {
				lab = "  " + med.Laboratorio
			}
			fmt.Printf("%-8s  %-30s%s\n", pm.MedicineID, pm.MedicineName, lab)
		}
		return nil
	},
}

var medsAttachCmd = &cobra.Command{
	Use:   "attach PET_ID MEDICINE_ID",
	Short: "Attach a catalog medicine to a pet",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		petID, err := parseID(args[0], "pet")
		if err != nil {
			return err
		}
		medID := petmed.MedicineID(args[1])

		a, err := newApp("AttachMedicine")
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.Service().SearchCatalog(context.Background(), "")
		if err != nil {
			return err
		}

		for _, med := range result.Medicines {
			if med.ID == medID {
				if _, err := a.Service().AttachMedicine(petID, med); err != nil {
					return err
				}
				fmt.Printf("Attached %s to pet #%d\n", med.Nome, petID)
				return nil
			}
		}
		return fmt.Errorf("medicine %s not found in catalog", medID)
	},
}

var medsDetachCmd = &cobra.Command{
	Use:   "detach PET_ID MEDICINE_ID",
	Short: "Remove one medicine from a pet",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		petID, err := parseID(args[0], "pet")
		if err != nil {
			return err
		}

		a, err := newApp("DetachMedicine")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Service().DetachMedicine(petID, petmed.MedicineID(args[1])); err != nil {
			return err
		}
		fmt.Println("Detached.")
		return nil
	},
}

var medsClearCmd = &cobra.Command{
	Use:   "clear PET_ID",
	Short: "Remove all medicines from a pet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		petID, err := parseID(args[0], "pet")
		if err != nil {
			return err
		}

		a, err := newApp("ClearMedicines")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Service().ClearMedicines(petID); err != nil {
			return err
		}
		fmt.Println("Cleared.")
		return nil
	},
}

// catalog command

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse the remote medicine catalog",
}

var catalogSearchCmd = &cobra.Command{
	Use:   "search [TERM]",
	Short: "Search the remote medicine catalog",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		term := ""
		if len(args) > 0 {
			term = args[0]
		}

		a, err := newApp("SearchCatalog")
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.Service().SearchCatalog(context.Background(), term)
		if err != nil {
			return err
		}

		if result.Offline {
			fmt.Println("Offline mode: no endpoint reachable, showing cached/sample data.")
		} else {
			fmt.Printf("Catalog from %s\n", result.Source)
		}

		if len(result.Medicines) == 0 {
			fmt.Println("No medicines found.")
			return nil
		}

		for _, m := range result.Medicines {
			fmt.Printf("%-8s  %-30s  %-15s  %s\n", m.ID, m.Nome, m.Laboratorio, m.Tipo)
		}
		return nil
	},
}

// prices command

var pricesCmd = &cobra.Command{
	Use:   "prices PET_ID",
	Short: "Compare medicine prices across stores",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		petID, err := parseID(args[0], "pet")
		if err != nil {
			return err
		}
		byStore, _ := cmd.Flags().GetBool("by-store")

		a, err := newApp("ComparePrices")
		if err != nil {
			return err
		}
		defer a.Close()

		cmp, err := a.Service().ComparePrices(context.Background(), petID)
		if err != nil {
			return err
		}

		if cmp.Offline {
			fmt.Println("Offline mode: no endpoint reachable, showing sample listings.")
		} else {
			fmt.Printf("Listings from %s\n", cmp.Source)
		}

		if len(cmp.Associations) == 0 {
			fmt.Println("Pet has no medicines to compare.")
			return nil
		}

		if byStore {
			printByStore(cmp)
		} else {
			printByMedicine(cmp)
		}
		return nil
	},
}

func printByMedicine(cmp *petmed.PriceComparison) {
	for _, av := range cmp.Availability {
		fmt.Printf("%s\n", av.Association.MedicineName)
		if av.Best == nil {
			fmt.Println("  not available in any consulted store")
			continue
		}
		fmt.Printf("  best price: R$ %.2f at %s\n", av.Best.Price, av.Best.StoreName)
		for _, s := range av.Stores {
			price, _ := priceIn(s, av.Association.MedicineID)
			marker := ""
			if s.ID == av.Best.StoreID {
				marker = "  [best]"
			}
			fmt.Printf("    %-20s  R$ %.2f%s\n", s.Nome, price, marker)
		}
	}
}

func printByStore(cmp *petmed.PriceComparison) {
	for _, inv := range cmp.Inventory {
		fmt.Printf("%s (%s)\n", inv.Store.Nome, inv.Store.Endereco)
		for _, item := range inv.Items {
			marker := ""
			if item.IsBestPrice {
				marker = "  [best]"
			}
			fmt.Printf("  %-30s  R$ %.2f%s\n", item.Association.MedicineName, item.Price, marker)
		}
	}
}

func priceIn(s petmed.StoreListing, id petmed.MedicineID) (float64, bool) {
	for _, p := range s.Produtos {
		if p.MedicineID == id {
			return p.Preco, true
		}
	}
	return 0, false
}

// db command

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Inspect the record store",
}

var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the database schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("CheckSchema")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.CheckSchema(); err != nil {
			return fmt.Errorf("schema check failed: %w", err)
		}
		fmt.Printf("Database %s is up to date.\n", a.StorePath())
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// pet subcommands
	petCmd.AddCommand(petAddCmd)
	petAddCmd.Flags().String("name", "", "Pet name")
	petAddCmd.Flags().String("breed", "", "Breed")
	petAddCmd.Flags().Int("age", 0, "Age in years")
	petAddCmd.Flags().Bool("pedigree", false, "Has pedigree")
	petAddCmd.Flags().String("type", "dog", "Animal type: dog or cat")
	petAddCmd.Flags().String("photo", "", "Photo URI")
	petCmd.AddCommand(petListCmd)
	petCmd.AddCommand(petUpdateCmd)
	petUpdateCmd.Flags().String("name", "", "Pet name")
	petUpdateCmd.Flags().String("breed", "", "Breed")
	petUpdateCmd.Flags().Int("age", 0, "Age in years")
	petUpdateCmd.Flags().Bool("pedigree", false, "Has pedigree")
	petUpdateCmd.Flags().String("type", "", "Animal type: dog or cat")
	petUpdateCmd.Flags().String("photo", "", "Photo URI")
	petCmd.AddCommand(petDeleteCmd)

	// store subcommands
	storeCmd.AddCommand(storeAddCmd)
	storeAddCmd.Flags().String("name", "", "Store name")
	storeAddCmd.Flags().String("address", "", "Address")
	storeAddCmd.Flags().String("phone", "", "Phone")
	storeAddCmd.Flags().String("email", "", "Email")
	storeAddCmd.Flags().String("cnpj", "", "Tax ID")
	storeAddCmd.Flags().String("hours", "", "Operating hours")
	storeAddCmd.Flags().Float64("lat", 0, "Latitude")
	storeAddCmd.Flags().Float64("lon", 0, "Longitude")
	storeCmd.AddCommand(storeListCmd)
	storeCmd.AddCommand(storeShowCmd)
	storeCmd.AddCommand(storeUpdateCmd)
	storeUpdateCmd.Flags().String("name", "", "Store name")
	storeUpdateCmd.Flags().String("address", "", "Address")
	storeUpdateCmd.Flags().String("phone", "", "Phone")
	storeUpdateCmd.Flags().String("email", "", "Email")
	storeUpdateCmd.Flags().String("cnpj", "", "Tax ID")
	storeUpdateCmd.Flags().String("hours", "", "Operating hours")
	storeUpdateCmd.Flags().Float64("lat", 0, "Latitude")
	storeUpdateCmd.Flags().Float64("lon", 0, "Longitude")
	storeCmd.AddCommand(storeDeactivateCmd)

	// meds subcommands
	medsCmd.AddCommand(medsListCmd)
	medsListCmd.Flags().String("search", "", "Filter by medicine name")
	medsCmd.AddCommand(medsAttachCmd)
	medsCmd.AddCommand(medsDetachCmd)
	medsCmd.AddCommand(medsClearCmd)

	// catalog subcommands
	catalogCmd.AddCommand(catalogSearchCmd)

	// db subcommands
	dbCmd.AddCommand(dbStatusCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(petCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(medsCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(pricesCmd)
	pricesCmd.Flags().Bool("by-store", false, "Group results by store instead of by medicine")
	rootCmd.AddCommand(dbCmd)
}
