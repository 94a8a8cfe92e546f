// Command seed populates the article library and campus resource directory
// with starter content. Safe to re-run: rows that already exist (articles
// by unique slug, resources by unique name) are skipped.
package main

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/staysafe/stay-safe-api/internal/config"
	"github.com/staysafe/stay-safe-api/internal/database"
	"github.com/staysafe/stay-safe-api/internal/logger"
	"github.com/staysafe/stay-safe-api/internal/repository"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	cfg := config.Load()
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal("schema migration failed", zap.Error(err))
	}

	articles := repository.NewArticleRepo(db)
	resources := repository.NewResourceRepo(db)

	var createdArticles, createdResources int
	for _, a := range seedArticles {
		if _, err := articles.Create(ctx, a); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				continue
			}
			log.Fatal("seeding article failed", zap.String("slug", a.Slug), zap.Error(err))
		}
		createdArticles++
	}
	for _, r := range seedResources {
		if _, err := resources.Create(ctx, r); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				continue
			}
			log.Fatal("seeding resource failed", zap.String("name", r.Name), zap.Error(err))
		}
		createdResources++
	}

	log.Info("seeding complete",
		zap.Int("articles", createdArticles),
		zap.Int("resources", createdResources),
	)
}

func ns(s string) sql.NullString { return sql.NullString{String: s, Valid: true} }

func nf(f float64) sql.NullFloat64 { return sql.NullFloat64{Float64: f, Valid: true} }

var seedArticles = []repository.Article{
	{
		Title:    "Understanding Contraception Options for Students",
		Slug:     "understanding-contraception-options",
		Category: "contraception",
		Summary:  "A guide to contraceptive methods available to university students, including effectiveness, cost, and where to access them.",
		Content: `# Understanding Contraception Options for Students

Choosing the right contraceptive method is an important decision for sexually active students.

## Barrier Methods

Condoms are 98% effective with perfect use and free at most campus health centers. They are the only method that also protects against STIs.

## Hormonal Methods

Birth control pills are 99% effective with perfect use and often free with student insurance. IUDs and implants last years with very low maintenance, though they require an insertion procedure.

## Emergency Contraception

The morning-after pill is most effective within 72 hours and is available over the counter.

## Where to Access

Most campus health centers offer free condoms, low-cost birth control pills, IUD and implant services, and emergency contraception. Always consult a healthcare provider to discuss which method fits your needs and health history.`,
		Author:   "Stay-Safe Health Team",
		ReadTime: 8,
		Tags:     []string{"contraception", "birth-control", "student-health", "prevention"},
		Featured: true,
		ImageURL: ns("https://images.unsplash.com/photo-1576671081837-49000212a370?w=800&q=80"),
	},
	{
		Title:    "STI Prevention and Testing: What Students Need to Know",
		Slug:     "sti-prevention-testing-guide",
		Category: "sti-prevention",
		Summary:  "Essential information about sexually transmitted infections, how to prevent them, and where to get tested on and near campus.",
		Content: `# STI Prevention and Testing

STIs are common among young adults, but most are preventable and treatable.

## Prevention Strategies

Use condoms consistently, get the HPV vaccine, test at least annually, and talk with partners about STI status. Consider PrEP if at high risk for HIV.

## Testing Recommendations

Sexually active students under 25 should test for chlamydia and gonorrhea annually. Get tested before a new partner and about two weeks after any unprotected exposure.

## Where to Get Tested

Campus health centers often test for free. Off campus, public health clinics and youth-friendly providers offer free or subsidized HIV and STI testing.`,
		Author:   "Stay-Safe Health Team",
		ReadTime: 7,
		Tags:     []string{"sti", "testing", "prevention", "sexual-health"},
		Featured: true,
	},
	{
		Title:    "Managing Your Menstrual Health at University",
		Slug:     "menstrual-health-university-guide",
		Category: "menstrual-health",
		Summary:  "Practical advice on tracking your cycle, managing symptoms, and knowing when irregular periods warrant a clinic visit.",
		Content: `# Managing Your Menstrual Health at University

Stress, diet changes and irregular sleep can all affect your cycle during the semester.

## Tracking

Tracking your cycle helps you spot changes early. Cycles between 21 and 35 days are typical; persistent irregularity, very heavy bleeding, or severe pain deserve a clinic visit.

## Managing Symptoms

Heat, regular exercise and over-the-counter pain relief help most cramps. Campus health services can advise on hormonal options for severe symptoms.

## When to Seek Help

See a provider if you miss three or more periods, bleed between periods, or pain interferes with classes.`,
		Author:   "Stay-Safe Health Team",
		ReadTime: 6,
		Tags:     []string{"menstrual-health", "periods", "student-health"},
		Featured: false,
	},
	{
		Title:    "Consent and Healthy Relationships on Campus",
		Slug:     "consent-healthy-relationships",
		Category: "relationships",
		Summary:  "What consent means in practice, how to communicate boundaries, and where to find support if a relationship feels unsafe.",
		Content: `# Consent and Healthy Relationships on Campus

Consent is a clear, ongoing, freely given agreement. It can be withdrawn at any time, and silence is not consent.

## Communicating Boundaries

Talk about boundaries before things get physical, and check in during. A partner who pressures, guilts or ignores a "no" is not respecting consent.

## Warning Signs

Controlling behavior, isolation from friends, and monitoring your phone are red flags in any relationship.

## Getting Support

Campus counseling services and gender violence recovery centres offer free, confidential support. In an emergency, contact campus security or a national helpline.`,
		Author:   "Stay-Safe Health Team",
		ReadTime: 5,
		Tags:     []string{"consent", "relationships", "safety"},
		Featured: true,
	},
	{
		Title:    "Looking After Your Mental Health During Exams",
		Slug:     "mental-health-exam-season",
		Category: "mental-health",
		Summary:  "Recognising the difference between normal exam stress and something more, plus free support options for students.",
		Content: `# Looking After Your Mental Health During Exams

Some stress before exams is normal. Stress that stops you sleeping, eating or attending classes is worth taking seriously.

## Practical Steps

Keep a regular sleep schedule, break revision into short blocks, and stay connected to friends. Avoid relying on caffeine or alcohol to cope.

## When to Reach Out

Persistent low mood, panic attacks, or thoughts of self-harm are reasons to talk to someone now, not after exams. Campus counseling is free and confidential, and most universities offer same-week appointments during exam season.`,
		Author:   "Stay-Safe Health Team",
		ReadTime: 6,
		Tags:     []string{"mental-health", "stress", "exams", "counseling"},
		Featured: false,
	},
	{
		Title:    "What to Do If You Think You Might Be Pregnant",
		Slug:     "pregnancy-options-students",
		Category: "pregnancy",
		Summary:  "A judgment-free walkthrough of pregnancy testing, your options, and the support services available to students.",
		Content: `# What to Do If You Think You Might Be Pregnant

A missed period is the most common first sign. Home tests are accurate from the first day of a missed period.

## Confirming

Campus health centers and clinics offer free or low-cost pregnancy testing with same-day results.

## Your Options

Whatever you decide, you have options: continuing the pregnancy, adoption, or, where legal, safe abortion care. Licensed clinics provide non-judgmental counseling on all three.

## Support

You do not have to navigate this alone. Student welfare offices, campus clinics and reproductive health organisations all offer confidential counseling.`,
		Author:   "Stay-Safe Health Team",
		ReadTime: 7,
		Tags:     []string{"pregnancy", "testing", "support", "options"},
		Featured: false,
	},
}

var seedResources = []repository.CampusResource{
	{
		Name:            "University of Nairobi Health Services",
		Type:            "on-campus",
		Category:        "general",
		Address:         "Main Campus, Harry Thuku Road",
		City:            "Nairobi",
		Phone:           ns("+254-20-4913000"),
		Email:           ns("health@uonbi.ac.ke"),
		Website:         ns("https://www.uonbi.ac.ke"),
		Hours:           ns("Monday-Friday: 8:00 AM - 5:00 PM"),
		Services:        []string{"STI Testing", "Contraception", "General Healthcare", "Counseling Referrals", "Emergency Care"},
		CostInfo:        ns("Free for registered students"),
		StudentFriendly: true,
		FreeServices:    []string{"Condoms", "Basic STI Testing", "Consultations"},
		Latitude:        nf(-1.2794),
		Longitude:       nf(36.8155),
		Verified:        true,
	},
	{
		Name:            "Kenyatta University Health Unit",
		Type:            "on-campus",
		Category:        "general",
		Address:         "Kenyatta University Main Campus",
		City:            "Nairobi",
		Phone:           ns("+254-20-8703911"),
		Website:         ns("https://www.ku.ac.ke"),
		Hours:           ns("Monday-Friday: 8:00 AM - 5:00 PM, Saturday: 9:00 AM - 1:00 PM"),
		Services:        []string{"Medical Consultations", "STI Testing", "Family Planning", "Mental Health Support", "Vaccinations"},
		CostInfo:        ns("Free for students with valid ID"),
		StudentFriendly: true,
		FreeServices:    []string{"Consultations", "Condoms", "Basic medications"},
		Latitude:        nf(-1.1707),
		Longitude:       nf(36.93),
		Verified:        true,
	},
	{
		Name:            "Marie Stopes Kenya - Nairobi Clinic",
		Type:            "clinic",
		Category:        "reproductive-health",
		Address:         "Mara Road, Upper Hill",
		City:            "Nairobi",
		Phone:           ns("+254-709-830000"),
		Email:           ns("info@mariestopes.or.ke"),
		Website:         ns("https://www.mariestopes.or.ke"),
		Hours:           ns("Monday-Friday: 8:00 AM - 5:00 PM, Saturday: 9:00 AM - 1:00 PM"),
		Services:        []string{"Family Planning", "STI Testing & Treatment", "Pregnancy Testing", "Counseling"},
		CostInfo:        ns("Sliding scale fees, student discounts available"),
		StudentFriendly: true,
		FreeServices:    []string{"Counseling", "Some contraceptives"},
		Latitude:        nf(-1.2921),
		Longitude:       nf(36.8219),
		Verified:        true,
	},
	{
		Name:            "LVCT Health - Nairobi",
		Type:            "clinic",
		Category:        "testing",
		Address:         "Jabavu Road, Kilimani",
		City:            "Nairobi",
		Phone:           ns("+254-20-2715639"),
		Email:           ns("info@lvcthealth.org"),
		Website:         ns("https://www.lvcthealth.org"),
		Hours:           ns("Monday-Friday: 8:00 AM - 5:00 PM"),
		Services:        []string{"HIV Testing & Counseling", "PrEP Services", "STI Testing", "Youth-Friendly Services"},
		CostInfo:        ns("Free HIV/STI testing, some services subsidized"),
		StudentFriendly: true,
		FreeServices:    []string{"HIV Testing", "STI Screening", "Counseling"},
		Latitude:        nf(-1.2906),
		Longitude:       nf(36.782),
		Verified:        true,
	},
	{
		Name:            "Goodlife Pharmacy - Westlands",
		Type:            "pharmacy",
		Category:        "contraception",
		Address:         "Westlands Road, Sarit Centre",
		City:            "Nairobi",
		Phone:           ns("+254-703-041000"),
		Website:         ns("https://www.goodlife.co.ke"),
		Hours:           ns("Monday-Sunday: 8:00 AM - 9:00 PM"),
		Services:        []string{"Emergency Contraception", "Condoms", "Pregnancy Tests", "Pharmacist Consultations"},
		CostInfo:        ns("Standard retail pricing"),
		StudentFriendly: true,
		Verified:        true,
	},
	{
		Name:            "Gender Violence Recovery Centre",
		Type:            "counseling",
		Category:        "emergency",
		Address:         "Nairobi Women's Hospital, Argwings Kodhek Road",
		City:            "Nairobi",
		Phone:           ns("+254-709-667000"),
		Website:         ns("https://gvrc.or.ke"),
		Hours:           ns("24 hours, 7 days"),
		Services:        []string{"Crisis Counseling", "Post-Assault Medical Care", "Legal Support Referrals"},
		CostInfo:        ns("All services free"),
		StudentFriendly: true,
		FreeServices:    []string{"All services free"},
		Verified:        true,
	},
}
