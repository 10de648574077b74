package query

import (
	"fmt"
	"strconv"

	"github.com/ValentinKolb/travels/cmd/util"
	"github.com/ValentinKolb/travels/lib/model"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var (
	userCmd = &cobra.Command{
		Use:   "user [id]",
		Short: "Prints the user with the given id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			person, err := rpcClient.GetPerson(id)
			if err != nil {
				return err
			}
			return printEncoded(rpcSerializer.EncodePerson(person))
		},
	}
	locationCmd = &cobra.Command{
		Use:   "location [id]",
		Short: "Prints the location with the given id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			place, err := rpcClient.GetPlace(id)
			if err != nil {
				return err
			}
			return printEncoded(rpcSerializer.EncodePlace(place))
		},
	}
	visitCmd = &cobra.Command{
		Use:   "visit [id]",
		Short: "Prints the visit with the given id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			visit, err := rpcClient.GetVisit(id)
			if err != nil {
				return err
			}
			return printEncoded(rpcSerializer.EncodeVisit(visit))
		},
	}
	visitsCmd = &cobra.Command{
		Use:   "visits [user id]",
		Short: "Prints the visits of a user sorted by visit time",
		Long:  "Prints the visits of a user sorted by visit time. Only the filter flags that are set narrow the result.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			visits, err := rpcClient.PersonVisits(id, visitFilterFromFlags(cmd))
			if err != nil {
				return err
			}
			return printEncoded(rpcSerializer.EncodeVisits(visits))
		},
	}
	avgCmd = &cobra.Command{
		Use:   "avg [location id]",
		Short: "Prints the average mark of a location",
		Long:  "Prints the average mark of a location rounded to 5 digits. Only the filter flags that are set narrow the result.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			filter, err := averageFilterFromFlags(cmd)
			if err != nil {
				return err
			}
			avg, err := rpcClient.PlaceAverage(id, filter)
			if err != nil {
				return err
			}
			return printEncoded(rpcSerializer.EncodeAverage(avg))
		},
	}
	markCmd = &cobra.Command{
		Use:   "mark [visit id] [mark]",
		Short: "Sets the mark of a visit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			mark, err := strconv.ParseUint(args[1], 10, 8)
			if err != nil || mark > uint64(model.MaxMark) {
				return errors.Newf("mark must be a number between 0 and %d", model.MaxMark)
			}
			m := uint8(mark)
			if err := rpcClient.UpdateVisit(id, model.VisitUpdate{Mark: &m}); err != nil {
				return err
			}
			fmt.Println("mark set successfully")
			return nil
		},
	}
)

func init() {
	key := "from-date"
	visitsCmd.Flags().Int64(key, 0, util.WrapString("Only visits after this time (epoch seconds)"))
	avgCmd.Flags().Int64(key, 0, util.WrapString("Only visits after this time (epoch seconds)"))

	key = "to-date"
	visitsCmd.Flags().Int64(key, 0, util.WrapString("Only visits before this time (epoch seconds)"))
	avgCmd.Flags().Int64(key, 0, util.WrapString("Only visits before this time (epoch seconds)"))

	key = "country"
	visitsCmd.Flags().String(key, "", util.WrapString("Only visits to locations in this country"))

	key = "to-distance"
	visitsCmd.Flags().Uint32(key, 0, util.WrapString("Only visits to locations closer than this distance"))

	key = "from-age"
	avgCmd.Flags().Int(key, 0, util.WrapString("Only visitors at least this old"))

	key = "to-age"
	avgCmd.Flags().Int(key, 0, util.WrapString("Only visitors younger than this"))

	key = "gender"
	avgCmd.Flags().String(key, "", util.WrapString("Only visitors of this gender (m, f)"))
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func parseID(s string) (uint32, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, errors.Newf("id must be a non negative number, got %q", s)
	}
	return uint32(id), nil
}

// printEncoded prints the output of an encoder
func printEncoded(data []byte, err error) error {
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// visitFilterFromFlags builds a filter from the flags set on the command line, nil if none is set.
// Errors of the flag getters are ignored, the flags are registered with these types.
func visitFilterFromFlags(cmd *cobra.Command) *model.VisitFilter {
	var f model.VisitFilter
	flags := cmd.Flags()
	if flags.Changed("from-date") {
		fromDate, _ := flags.GetInt64("from-date")
		f.FromDate = &fromDate
	}
	if flags.Changed("to-date") {
		toDate, _ := flags.GetInt64("to-date")
		f.ToDate = &toDate
	}
	if flags.Changed("country") {
		country, _ := flags.GetString("country")
		f.Country = &country
	}
	if flags.Changed("to-distance") {
		toDistance, _ := flags.GetUint32("to-distance")
		f.MaxDistance = &toDistance
	}
	if f.Empty() {
		return nil
	}
	return &f
}

// averageFilterFromFlags builds a filter from the flags set on the command line, nil if none is set
func averageFilterFromFlags(cmd *cobra.Command) (*model.AverageFilter, error) {
	var f model.AverageFilter
	flags := cmd.Flags()
	if flags.Changed("from-date") {
		fromDate, _ := flags.GetInt64("from-date")
		f.FromDate = &fromDate
	}
	if flags.Changed("to-date") {
		toDate, _ := flags.GetInt64("to-date")
		f.ToDate = &toDate
	}
	if flags.Changed("from-age") {
		fromAge, _ := flags.GetInt("from-age")
		f.FromAge = &fromAge
	}
	if flags.Changed("to-age") {
		toAge, _ := flags.GetInt("to-age")
		f.ToAge = &toAge
	}
	if flags.Changed("gender") {
		s, _ := flags.GetString("gender")
		g, err := model.ParseGender(s)
		if err != nil {
			return nil, err
		}
		f.Gender = &g
	}
	if f.Empty() {
		return nil, nil
	}
	return &f, nil
}
