// ABOUTME: Topic and bucket definitions for the twelve CDT categories
// ABOUTME: Bucket keys are the exact range strings topic classifiers are asked to echo
package catalog

var topics = []Topic{
	{
		Name:      "Diagnostic",
		Slug:      "diagnostic",
		CodeRange: "D0100-D0999",
		Summary:   "Evaluations, screenings, imaging, pathology and diagnostic tests.",
		Buckets: []Bucket{
			{Key: "D0120-D0180", Label: "Clinical Oral Evaluations", Guidance: "Any examination or evaluation: periodic (D0120), limited problem focused (D0140), comprehensive (D0150), periodontal (D0180)."},
			{Key: "D0190-D0191", Label: "Pre-diagnostic Services", Guidance: "Screening (D0190) or assessment (D0191) of a patient before a full evaluation."},
			{Key: "D0210-D0391", Label: "Diagnostic Imaging", Guidance: "Radiographs, CBCT, photographs: full mouth series (D0210), periapicals (D0220/D0230), bitewings (D0270-D0277), panoramic (D0330)."},
			{Key: "D0472-D0502", Label: "Oral Pathology Laboratory", Guidance: "Biopsy specimens and microscopic examination of oral tissue."},
			{Key: "D0411-D0999", Label: "Tests and Laboratory Examinations", Guidance: "Pulp vitality tests (D0460), caries risk assessment (D0601-D0603), microbial and other diagnostic tests."},
			{Key: "D4186", Label: "Assessment of Patient Outcome Metrics", Keyword: "outcome assessment"},
		},
	},
	{
		Name:      "Preventive",
		Slug:      "preventive",
		CodeRange: "D1000-D1999",
		Summary:   "Prophylaxis, fluoride, sealants, counseling, space maintenance and vaccinations.",
		Buckets: []Bucket{
			{Key: "D1110-D1120", Label: "Dental Prophylaxis", Guidance: "Routine cleaning: adult (D1110) or child (D1120)."},
			{Key: "D1206-D1208", Label: "Topical Fluoride Treatment", Guidance: "Fluoride varnish (D1206) or other topical fluoride (D1208)."},
			{Key: "D1310-D1355", Label: "Other Preventive Services", Guidance: "Nutritional and tobacco counseling, oral hygiene instruction, sealants (D1351), preventive resin restorations (D1352), caries arresting medicament (D1354)."},
			{Key: "D1510-D1555", Label: "Space Maintenance", Guidance: "Placement, re-cement, removal or repair of space maintainers."},
			{Key: "D1701-D1707", Label: "Vaccinations", Guidance: "Vaccine administration documented during the dental visit."},
		},
	},
	{
		Name:      "Restorative",
		Slug:      "restorative",
		CodeRange: "D2000-D2999",
		Summary:   "Direct and indirect restorations, crowns, buildups and repairs.",
		Buckets: []Bucket{
			{Key: "D2140-D2161", Label: "Amalgam Restorations", Guidance: "Amalgam fillings by number of surfaces (D2140 one through D2161 four or more)."},
			{Key: "D2330-D2394", Label: "Resin-Based Composite Restorations", Guidance: "Composite fillings, anterior (D2330-D2335) and posterior (D2391-D2394), by surfaces."},
			{Key: "D2410-D2430", Label: "Gold Foil Restorations", Guidance: "Gold foil by surfaces."},
			{Key: "D2510-D2664", Label: "Inlays and Onlays", Guidance: "Metallic, porcelain or composite inlays and onlays by surfaces."},
			{Key: "D2710-D2799", Label: "Crowns", Guidance: "Single restorations: resin, porcelain/ceramic, porcelain fused to metal, full cast, provisional crowns."},
			{Key: "D2910-D2999", Label: "Other Restorative Services", Guidance: "Recementation, core buildup (D2950), posts, stainless steel crowns (D2930/D2931), protective restoration (D2940), repairs."},
		},
	},
	{
		Name:      "Endodontics",
		Slug:      "endodontics",
		CodeRange: "D3000-D3999",
		Summary:   "Pulp capping, pulpotomy, root canal therapy, retreatment and periradicular surgery.",
		Buckets: []Bucket{
			{Key: "D3110-D3120", Label: "Pulp Capping", Guidance: "Direct pulp cap on an exposed pulp (D3110) or indirect pulp cap on a nearly exposed pulp (D3120); final restoration billed separately."},
			{Key: "D3220-D3222", Label: "Pulpotomy", Guidance: "Therapeutic pulpotomy (D3220), pulpal debridement (D3221), partial pulpotomy for apexogenesis (D3222)."},
			{Key: "D3230-D3240", Label: "Endodontic Therapy on Primary Teeth", Guidance: "Pulpal therapy with resorbable filling on primary anterior (D3230) or posterior (D3240) teeth."},
			{Key: "D3310-D3333", Label: "Endodontic Therapy", Guidance: "Root canal on a permanent tooth: anterior (D3310), premolar (D3320), molar (D3330); incomplete or perforation repair (D3331-D3333)."},
			{Key: "D3346-D3348", Label: "Endodontic Retreatment", Guidance: "Retreatment of a previous root canal: anterior (D3346), premolar (D3347), molar (D3348)."},
			{Key: "D3351", Label: "Apexification/Recalcification", Guidance: "Apexification or recalcification visits on an immature or resorbing root."},
			{Key: "D3355-D3357", Label: "Pulpal Regeneration", Guidance: "Regenerative endodontic visits on an immature permanent tooth."},
			{Key: "D3410-D3470", Label: "Apicoectomy/Periradicular Services", Guidance: "Apicoectomy, retrograde filling, root amputation, hemisection, intentional reimplantation."},
			{Key: "D3910-D3999", Label: "Other Endodontic Procedures", Guidance: "Surgical isolation, canal preparation for post, unusual endodontic procedures by report."},
		},
	},
	{
		Name:      "Periodontics",
		Slug:      "periodontics",
		CodeRange: "D4000-D4999",
		Summary:   "Surgical and non-surgical periodontal therapy and maintenance.",
		Buckets: []Bucket{
			{Key: "D4210-D4286", Label: "Surgical Services", Guidance: "Gingivectomy, flap procedures, osseous surgery, crown lengthening (D4249), grafts."},
			{Key: "D4322-D4381", Label: "Non-Surgical Periodontal Services", Guidance: "Scaling and root planing (D4341/D4342), full mouth debridement (D4355), localized antimicrobial delivery (D4381)."},
			{Key: "D4910-D4999", Label: "Other Periodontal Services", Guidance: "Periodontal maintenance (D4910), unscheduled dressing change, unspecified procedures."},
		},
	},
	{
		Name:      "Prosthodontics, Removable",
		Slug:      "prosthodontics-removable",
		CodeRange: "D5000-D5899",
		Summary:   "Complete and partial dentures, adjustments, repairs, relines and interim prostheses.",
		Buckets: []Bucket{
			{Key: "D5110-D5140", Label: "Complete Dentures", Guidance: "Complete or immediate dentures, maxillary or mandibular."},
			{Key: "D5211-D5286", Label: "Partial Dentures", Guidance: "Resin or cast metal framework partials, flexible base partials."},
			{Key: "D5410-D5422", Label: "Adjustments to Dentures", Guidance: "Adjusting complete or partial dentures."},
			{Key: "D5511-D5520", Label: "Repairs to Complete Dentures", Guidance: "Repair of a broken base or replacement of missing teeth on a complete denture."},
			{Key: "D5611-D5671", Label: "Repairs to Partial Dentures", Guidance: "Repairing bases, clasps, framework or adding teeth to a partial."},
			{Key: "D5710-D5725", Label: "Denture Rebase Procedures", Guidance: "Rebasing complete or partial dentures."},
			{Key: "D5730-D5761", Label: "Denture Reline Procedures", Guidance: "Chairside or laboratory relines."},
			{Key: "D5810-D5821", Label: "Interim Prosthesis", Guidance: "Interim complete or partial dentures."},
			{Key: "D5765-D5899", Label: "Other Removable Prosthetic Services", Guidance: "Tissue conditioning, precision attachments, soft liners, unspecified removable procedures."},
		},
	},
	{
		Name:      "Maxillofacial Prosthetics",
		Slug:      "maxillofacial-prosthetics",
		CodeRange: "D5900-D5999",
		Summary:   "Obturators, facial and ocular prostheses, speech and feeding aids, carriers.",
		Buckets: []Bucket{
			{Key: "D5911-D5960", Label: "General Maxillofacial Prosthetics", Guidance: "Facial moulage, nasal, auricular, orbital, ocular prostheses, obturators, speech aids."},
			{Key: "D5982-D5999", Label: "Carriers and Other Maxillofacial Services", Guidance: "Surgical stents, radiation and fluoride carriers, medicament carriers, unspecified maxillofacial prosthesis."},
		},
	},
	{
		Name:      "Implant Services",
		Slug:      "implant-services",
		CodeRange: "D6000-D6199",
		Summary:   "Implant placement, abutments, implant-supported crowns, dentures and bridges.",
		Buckets: []Bucket{
			{Key: "D6190", Label: "Pre-Surgical Services", Guidance: "Radiographic or surgical implant index."},
			{Key: "D6010-D6199", Label: "Surgical Services", Guidance: "Surgical placement of endosteal, eposteal or transosteal implants, interim abutments, bone grafts at placement."},
			{Key: "D6051-D6078", Label: "Implant Supported Prosthetics", Guidance: "Abutments and crowns or retainers supported by implants."},
			{Key: "D6110-D6119", Label: "Implant/Abutment Supported Removable Dentures", Guidance: "Removable dentures supported by implants or abutments."},
			{Key: "D6090-D6095", Label: "Implant/Abutment Supported Fixed Dentures", Guidance: "Repair of implant prosthesis and abutment, fixed hybrid dentures."},
			{Key: "D6058-D6077", Label: "Single Crowns, Abutment Supported", Guidance: "Crowns cemented to an implant abutment."},
			{Key: "D6065-D6067", Label: "Single Crowns, Implant Supported", Guidance: "Crowns retained directly on the implant."},
			{Key: "D6071-D6074", Label: "Fixed Partial Denture Retainer, Abutment Supported", Guidance: "Bridge retainers on implant abutments."},
			{Key: "D6075", Label: "Fixed Partial Denture Retainer, Implant Supported", Guidance: "Bridge retainer supported directly by the implant."},
			{Key: "D6080-D6199", Label: "Other Implant Services", Guidance: "Implant maintenance, scaling and debridement around implants, implant removal, unspecified implant procedures."},
		},
	},
	{
		Name:      "Prosthodontics, Fixed",
		Slug:      "prosthodontics-fixed",
		CodeRange: "D6200-D6999",
		Summary:   "Bridge pontics, retainers and other fixed prosthodontic services.",
		Buckets: []Bucket{
			{Key: "D6205-D6253", Label: "Fixed Partial Denture Pontics", Guidance: "Pontics by material: cast metal, porcelain, resin, provisional."},
			{Key: "D6545-D6634", Label: "Fixed Partial Denture Retainers, Inlays/Onlays", Guidance: "Inlay or onlay retainers for a bridge."},
			{Key: "D6710-D6793", Label: "Fixed Partial Denture Retainers, Crowns", Guidance: "Crown retainers for a bridge by material."},
			{Key: "D6920-D6999", Label: "Other Fixed Partial Denture Services", Guidance: "Connector bars, recementation, stress breakers, repairs, unspecified fixed procedures."},
		},
	},
	{
		Name:      "Oral and Maxillofacial Surgery",
		Slug:      "oral-surgery",
		CodeRange: "D7000-D7999",
		Summary:   "Extractions, surgical procedures, excisions, incision and drainage, fractures, TMJ and repairs.",
		Buckets: []Bucket{
			{Key: "D7111-D7140", Label: "Extractions", Guidance: "Non-surgical extraction of coronal remnants (D7111) or an erupted tooth (D7140)."},
			{Key: "D7210-D7251", Label: "Surgical Extractions", Guidance: "Surgical removal of erupted teeth needing flap or bone removal, impactions, residual roots."},
			{Key: "D7260-D7297", Label: "Other Surgical Procedures", Guidance: "Oroantral fistula closure, reimplantation, exposure of unerupted teeth, biopsies (D7285/D7286), transseptal fiberotomy."},
			{Key: "D7310-D7321", Label: "Alveoloplasty", Guidance: "Alveoloplasty with or without extractions."},
			{Key: "D7340-D7350", Label: "Vestibuloplasty", Guidance: "Vestibuloplasty ridge extension."},
			{Key: "D7410-D7465", Label: "Excision of Soft Tissue Lesions", Guidance: "Excision of benign or malignant soft tissue lesions, destruction of lesions."},
			{Key: "D7440-D7461", Label: "Excision of Intra-Osseous Lesions", Guidance: "Excision of malignant tumors or benign cysts within bone."},
			{Key: "D7471-D7490", Label: "Excision of Bone Tissue", Guidance: "Removal of exostosis or tori, partial ostectomy, radical resection."},
			{Key: "D7510-D7560", Label: "Surgical Incision", Guidance: "Incision and drainage of abscess intraoral (D7510/D7511) or extraoral, removal of foreign bodies, sinusotomy."},
			{Key: "D7610-D7780", Label: "Treatment of Fractures", Guidance: "Open or closed reduction of maxilla, mandible, malar or alveolus fractures."},
			{Key: "D7810-D7880", Label: "Reduction of Dislocation and Management of TMJ Dysfunction", Guidance: "TMJ reduction, arthrotomy, arthroscopy, occlusal orthotic device (D7880)."},
			{Key: "D7910-D7912", Label: "Repair of Traumatic Wounds", Guidance: "Simple suture of recent small wounds."},
			{Key: "D7911-D7912", Label: "Complicated Suturing", Guidance: "Complicated suture of wounds up to or over 5 cm."},
			{Key: "D7920-D7999", Label: "Other Repair Procedures", Guidance: "Skin and bone grafts, sinus augmentation, frenectomy (D7961/D7962), collection of blood for PRF, unspecified surgery."},
		},
	},
	{
		Name:      "Orthodontics",
		Slug:      "orthodontics",
		CodeRange: "D8000-D8999",
		Summary:   "Limited and comprehensive orthodontic treatment, habit appliances and other orthodontic services.",
		Buckets: []Bucket{
			{Key: "D8010-D8040", Label: "Limited Orthodontic Treatment", Guidance: "Limited treatment of primary, transitional, adolescent or adult dentition."},
			{Key: "D8070-D8090", Label: "Comprehensive Orthodontic Treatment", Guidance: "Comprehensive treatment by dentition stage."},
			{Key: "D8210-D8220", Label: "Minor Treatment to Control Harmful Habits", Guidance: "Removable or fixed appliance therapy for thumb sucking or tongue thrust."},
			{Key: "D8660-D8999", Label: "Other Orthodontic Services", Guidance: "Pre-treatment visit, periodic visits, retention, repair or replacement of appliances."},
		},
	},
	{
		Name:      "Adjunctive General Services",
		Slug:      "adjunctive",
		CodeRange: "D9000-D9999",
		Summary:   "Palliative care, anesthesia, consultations, visits, drugs and miscellaneous services.",
		Buckets: []Bucket{
			{Key: "D9110-D9130", Label: "Unclassified Treatment", Guidance: "Palliative treatment of dental pain (D9110), fixed partial denture sectioning, TMJ non-invasive therapies."},
			{Key: "D9210-D9248", Label: "Anesthesia", Guidance: "Local anesthesia not with an operative procedure, deep sedation, IV moderate sedation, nitrous oxide (D9230)."},
			{Key: "D9310-D9311", Label: "Professional Consultation", Guidance: "Consultation by a dentist other than the treating dentist, consultation with a medical professional."},
			{Key: "D9410-D9450", Label: "Professional Visits", Guidance: "House or facility calls, hospital calls, office visits after hours (D9440), case presentation."},
			{Key: "D9610-D9630", Label: "Drugs", Guidance: "Therapeutic parenteral drugs, other drugs or medicaments dispensed in office."},
			{Key: "D9910-D9973", Label: "Miscellaneous Services", Guidance: "Desensitizing medicament, behavior management, occlusal guards (D9944-D9946), occlusal adjustment, bleaching."},
			{Key: "D9961-D9999", Label: "Non-clinical Procedures", Guidance: "Missed appointment, certified translation, case management, unspecified adjunctive procedures."},
		},
	},
}
